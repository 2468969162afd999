package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleData() *TableData {
	return &TableData{
		Columns: []string{"id", "family_name", "status"},
		Rows: [][]string{
			{"patient-1", "Rivera", "active"},
			{"patient-2", "Okafor, with a family name well beyond the thirty character column cap", "active"},
		},
	}
}

func sampleMeta() Meta {
	return Meta{
		Title:       "Patients Report",
		ReportType:  TypePatients,
		GeneratedAt: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
		RecordCount: 2,
		Filters:     map[string]string{"active": "true"},
	}
}

func TestCSVRenderer(t *testing.T) {
	out, err := (&CSVRenderer{}).Render(sampleData(), sampleMeta())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "id,family_name,status" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "patient-1") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestTXTRenderer_CapsColumnWidth(t *testing.T) {
	out, err := (&TXTRenderer{}).Render(sampleData(), sampleMeta())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "Patients Report") {
		t.Error("expected title in output")
	}
	if !strings.Contains(text, "Filters: active=true") {
		t.Error("expected filters line in output")
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "Okafor") && !strings.Contains(line, "...") {
			t.Errorf("expected long cell truncated, got %q", line)
		}
	}
}

func TestJSONRenderer_Envelope(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(sampleData(), sampleMeta())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var envelope struct {
		Title       string              `json:"title"`
		ReportType  string              `json:"report_type"`
		RecordCount int                 `json:"record_count"`
		Records     []map[string]string `json:"records"`
	}
	if err := json.Unmarshal(out, &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}

	if envelope.ReportType != TypePatients {
		t.Errorf("expected report type patients, got %q", envelope.ReportType)
	}
	if envelope.RecordCount != 2 {
		t.Errorf("expected record count 2, got %d", envelope.RecordCount)
	}
	if len(envelope.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(envelope.Records))
	}
	if envelope.Records[0]["id"] != "patient-1" {
		t.Errorf("unexpected first record %v", envelope.Records[0])
	}
}

func TestPDFRenderer_ProducesDocument(t *testing.T) {
	out, err := (&PDFRenderer{}).Render(sampleData(), sampleMeta())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("expected PDF magic header")
	}
}

func TestPDFRenderer_EmptyDataset(t *testing.T) {
	out, err := (&PDFRenderer{}).Render(&TableData{}, sampleMeta())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty document")
	}
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#1a5276")
	if r != 26 || g != 82 || b != 118 {
		t.Errorf("unexpected rgb %d,%d,%d", r, g, b)
	}

	r, g, b = hexToRGB("bogus")
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black fallback, got %d,%d,%d", r, g, b)
	}
}
