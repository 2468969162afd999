package clinic

import "context"

// RepositoryInterface defines the persistence operations for clinic settings
type RepositoryInterface interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) (*Settings, error)
}
