package prescription

import "context"

// RepositoryInterface defines the contract for prescription data access
type RepositoryInterface interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	Get(ctx context.Context, id string) (*Prescription, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Prescription, int, error)
	Update(ctx context.Context, p *Prescription) (*Prescription, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
