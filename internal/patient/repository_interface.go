package patient

import "context"

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Patient, int, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
