package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Default brand colors when no clinic settings are available
const (
	defaultPrimary   = "#1a5276"
	defaultSecondary = "#2e86c1"
)

// PDFRenderer renders reports as A4 landscape PDF documents
type PDFRenderer struct{}

var _ Renderer = (*PDFRenderer)(nil)

func (r *PDFRenderer) FileExtension() string { return "pdf" }

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(data *TableData, meta Meta) ([]byte, error) {
	primary := defaultPrimary
	secondary := defaultSecondary
	clinicName := ""
	footer := ""
	if meta.Branding != nil {
		if meta.Branding.PrimaryColor != "" {
			primary = meta.Branding.PrimaryColor
		}
		if meta.Branding.SecondaryColor != "" {
			secondary = meta.Branding.SecondaryColor
		}
		clinicName = meta.Branding.ClinicName
		footer = meta.Branding.ReportFooter
	}
	pr, pg, pb := hexToRGB(primary)
	sr, sg, sb := hexToRGB(secondary)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		left := footer
		if left == "" {
			left = clinicName
		}
		pdf.CellFormat(0, 10, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header band
	pdf.SetFillColor(pr, pg, pb)
	pdf.Rect(0, 0, 297, 18, "F")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(10, 4)
	header := clinicName
	if header == "" {
		header = "Patient Management Service"
	}
	pdf.CellFormat(0, 10, header, "", 1, "L", false, 0, "")

	// Title
	pdf.SetY(24)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(pr, pg, pb)
	pdf.CellFormat(0, 10, meta.Title, "", 1, "L", false, 0, "")

	// Metadata box
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetFillColor(240, 244, 248)
	info := fmt.Sprintf("Generated: %s    Records: %d",
		meta.GeneratedAt.Format("2006-01-02 15:04 MST"), meta.RecordCount)
	if f := formatFilters(meta.Filters); f != "" {
		info += "    Filters: " + f
	}
	pdf.CellFormat(0, 8, info, "", 1, "L", true, 0, "")
	pdf.Ln(4)

	if len(data.Columns) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 10, "No records matched the report criteria.", "", 1, "L", false, 0, "")
		return output(pdf)
	}

	colWidth := 277.0 / float64(len(data.Columns))

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(sr, sg, sb)
		pdf.SetTextColor(255, 255, 255)
		for _, col := range data.Columns {
			pdf.CellFormat(colWidth, 8, truncate(headerLabel(col), 40), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(30, 30, 30)
	for i, row := range data.Rows {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(30, 30, 30)
		}
		if i%2 == 1 {
			pdf.SetFillColor(235, 241, 246)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for _, cell := range row {
			pdf.CellFormat(colWidth, 7, truncate(cell, 40), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

func headerLabel(col string) string {
	return titleCase(strings.ReplaceAll(col, "_", " "))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func formatFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, filters[k]))
	}
	return strings.Join(parts, ", ")
}
