package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONRenderer renders reports as a JSON document with a metadata envelope
type JSONRenderer struct{}

var _ Renderer = (*JSONRenderer)(nil)

func (r *JSONRenderer) FileExtension() string { return "json" }

func (r *JSONRenderer) ContentType() string { return "application/json" }

type jsonEnvelope struct {
	Title       string              `json:"title"`
	ReportType  string              `json:"report_type"`
	GeneratedAt time.Time           `json:"generated_at"`
	RecordCount int                 `json:"record_count"`
	Filters     map[string]string   `json:"filters,omitempty"`
	Records     []map[string]string `json:"records"`
}

func (r *JSONRenderer) Render(data *TableData, meta Meta) ([]byte, error) {
	records := make([]map[string]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := make(map[string]string, len(data.Columns))
		for i, col := range data.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}

	envelope := jsonEnvelope{
		Title:       meta.Title,
		ReportType:  meta.ReportType,
		GeneratedAt: meta.GeneratedAt,
		RecordCount: meta.RecordCount,
		Filters:     meta.Filters,
		Records:     records,
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return out, nil
}
