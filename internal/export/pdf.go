package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the rows as a question report. Each question becomes a
// block with the prompt, the expected answer and a metadata line.
func WritePDF(title string, rows []Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, title, "", "L", false)
	pdf.Ln(4)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, "No questions to export.", "", "L", false)
	}

	for i, r := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, r.Question), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, r.Answer, "", "L", false)

		pdf.SetFont("Helvetica", "I", 9)
		meta := fmt.Sprintf("Skill: %s | Category: %s | Difficulty: %s | Status: %s", r.Skill, r.Category, r.Difficulty, r.Status)
		pdf.MultiCell(0, 5, meta, "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
