package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// PaginatedReports bundles a page of report rows with its metadata
type PaginatedReports struct {
	Reports    []*Report
	Pagination pagination.Meta
}

// Download is a rendered report ready to be served as an attachment
type Download struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// Options describes what the report endpoint supports
type Options struct {
	Types   []string            `json:"types"`
	Formats []string            `json:"formats"`
	Fields  map[string][]string `json:"fields"`
}

// Service implements report generation and retrieval
type Service struct {
	repo      RepositoryInterface
	provider  DataProviderInterface
	renderers map[string]Renderer
	settings  SettingsProvider
	metrics   MetricsRecorder
	now       func() time.Time
}

var _ ServiceInterface = (*Service)(nil)

// NewService creates a report service. settings and metrics may be nil.
func NewService(repo RepositoryInterface, provider DataProviderInterface, settings SettingsProvider, metrics MetricsRecorder) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		renderers: Renderers(),
		settings:  settings,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Generate produces a report synchronously: it fetches the dataset, renders
// it in the requested format, and persists the row with its payload. A
// rendering failure is persisted as a failed row and reported to the caller.
func (s *Service) Generate(ctx context.Context, req GenerateRequest, requestedBy string) (*Report, error) {
	if !ValidTypes[req.ReportType] {
		return nil, ErrInvalidType
	}
	renderer, ok := s.renderers[req.Format]
	if !ok {
		return nil, ErrInvalidFormat
	}

	title := req.Title
	if title == "" {
		title = defaultTitle(req.ReportType)
	}

	rep := &Report{
		ReportType:  req.ReportType,
		Format:      req.Format,
		Title:       title,
		Status:      StatusProcessing,
		Filters:     req.Filters,
		RequestedBy: requestedBy,
	}

	started := s.now()
	data, err := s.provider.Fetch(ctx, req.ReportType, req.Filters)
	if err != nil {
		return s.persistFailure(ctx, rep, err)
	}
	rep.RecordCount = len(data.Rows)

	meta := Meta{
		Title:       title,
		ReportType:  req.ReportType,
		GeneratedAt: started.UTC(),
		RecordCount: rep.RecordCount,
		Filters:     req.Filters,
	}
	if s.settings != nil {
		branding, err := s.settings.Get(ctx)
		if err != nil {
			log.Printf("Warning: failed to load clinic settings for report: %v", err)
		} else {
			meta.Branding = branding
		}
	}

	payload, err := renderer.Render(data, meta)
	if err != nil {
		return s.persistFailure(ctx, rep, err)
	}

	rep.Status = StatusCompleted
	rep.Payload = payload
	completedAt := s.now().UTC()
	rep.CompletedAt = &completedAt

	created, err := s.repo.Create(ctx, rep)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		durationMs := float64(s.now().Sub(started).Microseconds()) / 1000.0
		s.metrics.RecordReportGeneration(ctx, req.ReportType, req.Format, durationMs)
	}
	return created, nil
}

func (s *Service) persistFailure(ctx context.Context, rep *Report, cause error) (*Report, error) {
	rep.Status = StatusFailed
	rep.ErrorMessage = cause.Error()
	completedAt := s.now().UTC()
	rep.CompletedAt = &completedAt

	if _, err := s.repo.Create(ctx, rep); err != nil {
		log.Printf("Warning: failed to persist failed report: %v", err)
	}
	return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, cause)
}

// Get fetches a report row by ID
func (s *Service) Get(ctx context.Context, id string) (*Report, error) {
	return s.repo.Get(ctx, id)
}

// List returns report rows matching the filters
func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedReports, error) {
	params.Validate()
	reports, total, err := s.repo.List(ctx, f, params)
	if err != nil {
		return nil, err
	}
	return &PaginatedReports{
		Reports:    reports,
		Pagination: params.CalculateMeta(total),
	}, nil
}

// Download returns a completed report's payload with its attachment name
func (s *Service) Download(ctx context.Context, id string) (*Download, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status != StatusCompleted || len(rep.Payload) == 0 {
		return nil, ErrReportNotReady
	}

	renderer := s.renderers[rep.Format]
	ts := rep.CreatedAt.Format("20060102_150405")
	return &Download{
		Filename:    fmt.Sprintf("%s_report_%s.%s", rep.ReportType, ts, renderer.FileExtension()),
		ContentType: renderer.ContentType(),
		Payload:     rep.Payload,
	}, nil
}

// Delete removes a report row
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Options lists the supported report types, formats and exported fields
func (s *Service) Options() Options {
	types := make([]string, 0, len(ValidTypes))
	for t := range ValidTypes {
		types = append(types, t)
	}
	formats := make([]string, 0, len(s.renderers))
	for f := range s.renderers {
		formats = append(formats, f)
	}
	fields := make(map[string][]string, len(types))
	for _, t := range types {
		fields[t] = Fields(t)
	}

	sort.Strings(types)
	sort.Strings(formats)
	return Options{Types: types, Formats: formats, Fields: fields}
}

func defaultTitle(reportType string) string {
	name := strings.ReplaceAll(reportType, "_", " ")
	return titleCase(name) + " Report"
}

// titleCase uppercases the first letter of each word. Report types and
// column names are plain ASCII, so no rune-aware casing is needed.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
