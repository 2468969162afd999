package report

import "time"

// Report lifecycle statuses
const (
	StatusRequested  = "requested"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Report types, one per exported dataset
const (
	TypePatients        = "patients"
	TypePractitioners   = "practitioners"
	TypeAppointments    = "appointments"
	TypePrescriptions   = "prescriptions"
	TypeInvoices        = "invoices"
	TypeClinicalRecords = "clinical_records"
)

// ValidTypes lists the supported report types
var ValidTypes = map[string]bool{
	TypePatients:        true,
	TypePractitioners:   true,
	TypeAppointments:    true,
	TypePrescriptions:   true,
	TypeInvoices:        true,
	TypeClinicalRecords: true,
}

// Output formats
const (
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatJSON = "json"
)

// Report is a persisted report row, payload included
type Report struct {
	ID           string            `json:"id"`
	ReportType   string            `json:"report_type"`
	Format       string            `json:"format"`
	Title        string            `json:"title"`
	Status       string            `json:"status"`
	Filters      map[string]string `json:"filters,omitempty"`
	RecordCount  int               `json:"record_count"`
	Payload      []byte            `json:"-"`
	ErrorMessage string            `json:"error_message,omitempty"`
	RequestedBy  string            `json:"requested_by"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// GenerateRequest is the body of the report generation endpoint
type GenerateRequest struct {
	ReportType string            `json:"report_type"`
	Format     string            `json:"format"`
	Title      string            `json:"title,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// TableData is the tabular dataset a report renders
type TableData struct {
	Columns []string
	Rows    [][]string
}

// Filters narrows report list queries
type Filters struct {
	RequestedBy string
	Status      string
	ReportType  string
}
