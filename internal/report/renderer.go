package report

import (
	"time"

	"github.com/clinicore/patient-management-service/internal/clinic"
)

// Meta carries report-level information into the renderers
type Meta struct {
	Title       string
	ReportType  string
	GeneratedAt time.Time
	RecordCount int
	Filters     map[string]string
	Branding    *clinic.Settings
}

// Renderer turns a tabular dataset into a downloadable document
type Renderer interface {
	Render(data *TableData, meta Meta) ([]byte, error)
	FileExtension() string
	ContentType() string
}

// Renderers maps each supported format to its renderer
func Renderers() map[string]Renderer {
	return map[string]Renderer{
		FormatPDF:  &PDFRenderer{},
		FormatCSV:  &CSVRenderer{},
		FormatTXT:  &TXTRenderer{},
		FormatJSON: &JSONRenderer{},
	}
}
