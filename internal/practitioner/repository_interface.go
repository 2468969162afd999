package practitioner

import "context"

// RepositoryInterface defines the contract for practitioner data access
type RepositoryInterface interface {
	Create(ctx context.Context, p *Practitioner) (*Practitioner, error)
	Get(ctx context.Context, id string) (*Practitioner, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Practitioner, int, error)
	Update(ctx context.Context, p *Practitioner) (*Practitioner, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
