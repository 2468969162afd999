package clinicalrecord

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the clinical record operations exposed to handlers
type ServiceInterface interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedRecords, error)
	Update(ctx context.Context, rec *Record) (*Record, error)
	Delete(ctx context.Context, id string) error
}
