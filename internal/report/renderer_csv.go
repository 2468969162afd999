package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVRenderer renders reports as RFC 4180 CSV
type CSVRenderer struct{}

var _ Renderer = (*CSVRenderer)(nil)

func (r *CSVRenderer) FileExtension() string { return "csv" }

func (r *CSVRenderer) ContentType() string { return "text/csv" }

func (r *CSVRenderer) Render(data *TableData, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(data.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
