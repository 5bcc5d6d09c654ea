package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Questions"

var excelColumnWidths = map[string]float64{
	"A": 60, // Question
	"B": 80, // Answer
	"C": 16, // Category
	"D": 12, // Difficulty
	"E": 24, // Skill
	"F": 10, // Status
}

// WriteExcel renders the rows as an xlsx workbook with a single sheet.
func WriteExcel(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(excelSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	for col, width := range excelColumnWidths {
		if err := f.SetColWidth(excelSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		fields := r.fields()
		vals := make([]any, len(fields))
		for j, v := range fields {
			vals[j] = v
		}
		if err := f.SetSheetRow(excelSheet, cell, &vals); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
