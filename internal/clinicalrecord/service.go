package clinicalrecord

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// PaginatedRecords bundles a page of clinical records with its metadata
type PaginatedRecords struct {
	Records    []*Record
	Pagination pagination.Meta
}

// Service implements the clinical record business logic
type Service struct {
	repo RepositoryInterface
}

var _ ServiceInterface = (*Service)(nil)

// NewService creates a clinical record service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Create stores a new clinical record
func (s *Service) Create(ctx context.Context, rec *Record) (*Record, error) {
	return s.repo.Create(ctx, rec)
}

// Get fetches a clinical record by ID
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns clinical records matching the filters
func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedRecords, error) {
	params.Validate()
	records, total, err := s.repo.List(ctx, f, params)
	if err != nil {
		return nil, err
	}
	return &PaginatedRecords{
		Records:    records,
		Pagination: params.CalculateMeta(total),
	}, nil
}

// Update replaces an existing clinical record
func (s *Service) Update(ctx context.Context, rec *Record) (*Record, error) {
	return s.repo.Update(ctx, rec)
}

// Delete removes a clinical record
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
