package clinic

import (
	"context"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service implements the clinic settings business logic
type Service struct {
	repo RepositoryInterface
}

var _ ServiceInterface = (*Service)(nil)

// NewService creates a clinic settings service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Get returns the current clinic settings
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

// Update applies a partial update to the clinic settings
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Settings, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	req.Apply(current)
	return s.repo.Save(ctx, current)
}

func validateRequest(req UpdateRequest) error {
	if req.PrimaryColor != nil && !hexColorPattern.MatchString(*req.PrimaryColor) {
		return ErrInvalidColor
	}
	if req.SecondaryColor != nil && !hexColorPattern.MatchString(*req.SecondaryColor) {
		return ErrInvalidColor
	}
	if req.Email != nil && *req.Email != "" && !strings.Contains(*req.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
