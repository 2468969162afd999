package practitioner

import (
	"context"
	"fmt"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// PaginatedPractitioners is the list payload returned by List and Search
type PaginatedPractitioners struct {
	Practitioners []Practitioner  `json:"practitioners"`
	Pagination    pagination.Meta `json:"pagination"`
}

func (s *Service) Create(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Practitioner, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPractitioners, error) {
	params.Validate()

	practitioners, total, err := s.repo.List(ctx, f, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	if practitioners == nil {
		practitioners = []Practitioner{}
	}

	return &PaginatedPractitioners{
		Practitioners: practitioners,
		Pagination:    params.CalculateMeta(total),
	}, nil
}

// Search matches the query against names and specializations of active practitioners
func (s *Service) Search(ctx context.Context, query string, params pagination.Params) (*PaginatedPractitioners, error) {
	active := true

	byName, err := s.List(ctx, Filters{Active: &active, Name: query}, params)
	if err != nil {
		return nil, err
	}
	if byName.Pagination.TotalRecords > 0 {
		return byName, nil
	}

	return s.List(ctx, Filters{Active: &active, Specialization: query}, params)
}

func (s *Service) Update(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
