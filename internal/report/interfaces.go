package report

import (
	"context"
	"time"

	"github.com/clinicore/patient-management-service/internal/clinic"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

// RepositoryInterface defines the persistence operations for reports
type RepositoryInterface interface {
	Create(ctx context.Context, rep *Report) (*Report, error)
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, f Filters, params pagination.Params) ([]*Report, int, error)
	Delete(ctx context.Context, id string) error
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DataProviderInterface supplies the tabular dataset for a report type
type DataProviderInterface interface {
	Fetch(ctx context.Context, reportType string, filters map[string]string) (*TableData, error)
}

// SettingsProvider supplies the clinic branding used by the PDF renderer
type SettingsProvider interface {
	Get(ctx context.Context) (*clinic.Settings, error)
}

// MetricsRecorder records report generation timings
type MetricsRecorder interface {
	RecordReportGeneration(ctx context.Context, reportType, format string, durationMs float64)
}

// ServiceInterface defines the report operations exposed to handlers
type ServiceInterface interface {
	Generate(ctx context.Context, req GenerateRequest, requestedBy string) (*Report, error)
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedReports, error)
	Download(ctx context.Context, id string) (*Download, error)
	Delete(ctx context.Context, id string) error
	Options() Options
}
