package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteCSV renders the rows as an RFC 4180 CSV document. The header line is
// always present, even for an empty row set.
func WriteCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.fields()); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
