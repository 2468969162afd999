package billing

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// RepositoryInterface defines the persistence operations for invoices
type RepositoryInterface interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, f Filters, params pagination.Params) ([]*Invoice, int, error)
	Update(ctx context.Context, inv *Invoice) (*Invoice, error)
	Delete(ctx context.Context, id string) error
}
