package practitioner

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the contract for practitioner business logic operations
type ServiceInterface interface {
	Create(ctx context.Context, p *Practitioner) (*Practitioner, error)
	Get(ctx context.Context, id string) (*Practitioner, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPractitioners, error)
	Search(ctx context.Context, query string, params pagination.Params) (*PaginatedPractitioners, error)
	Update(ctx context.Context, p *Practitioner) (*Practitioner, error)
	Delete(ctx context.Context, id string) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
