package prescription

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the contract for prescription business logic operations
type ServiceInterface interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	Get(ctx context.Context, id string) (*Prescription, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPrescriptions, error)
	Update(ctx context.Context, p *Prescription) (*Prescription, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
