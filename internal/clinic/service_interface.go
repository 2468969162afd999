package clinic

import "context"

// ServiceInterface defines the clinic settings operations exposed to handlers
type ServiceInterface interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateRequest) (*Settings, error)
}
