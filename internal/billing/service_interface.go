package billing

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the invoice operations exposed to handlers
type ServiceInterface interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedInvoices, error)
	Update(ctx context.Context, inv *Invoice) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	RecordPayment(ctx context.Context, id string, payment PaymentRequest) (*Invoice, error)
}
