package report

import (
	"bytes"
	"fmt"
	"strings"
)

// txtColumnCap bounds the width of a fixed-width column
const txtColumnCap = 30

// TXTRenderer renders reports as fixed-width plain text tables
type TXTRenderer struct{}

var _ Renderer = (*TXTRenderer)(nil)

func (r *TXTRenderer) FileExtension() string { return "txt" }

func (r *TXTRenderer) ContentType() string { return "text/plain" }

func (r *TXTRenderer) Render(data *TableData, meta Meta) ([]byte, error) {
	var buf bytes.Buffer

	if meta.Branding != nil && meta.Branding.ClinicName != "" {
		fmt.Fprintln(&buf, meta.Branding.ClinicName)
	}
	fmt.Fprintln(&buf, meta.Title)
	fmt.Fprintf(&buf, "Generated: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&buf, "Records: %d\n", meta.RecordCount)
	if f := formatFilters(meta.Filters); f != "" {
		fmt.Fprintf(&buf, "Filters: %s\n", f)
	}
	fmt.Fprintln(&buf)

	if len(data.Columns) == 0 {
		fmt.Fprintln(&buf, "No records matched the report criteria.")
		return buf.Bytes(), nil
	}

	widths := make([]int, len(data.Columns))
	for i, col := range data.Columns {
		widths[i] = len(col)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > txtColumnCap {
			widths[i] = txtColumnCap
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = truncate(cells[i], widths[i])
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(&buf, strings.Join(parts, "  "))
	}

	writeRow(data.Columns)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(&buf, strings.Join(sep, "  "))
	for _, row := range data.Rows {
		writeRow(row)
	}

	if meta.Branding != nil && meta.Branding.ReportFooter != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, meta.Branding.ReportFooter)
	}

	return buf.Bytes(), nil
}
