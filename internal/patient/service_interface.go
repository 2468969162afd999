package patient

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPatients, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
