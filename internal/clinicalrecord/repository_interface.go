package clinicalrecord

import (
	"context"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// RepositoryInterface defines the persistence operations for clinical records
type RepositoryInterface interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, f Filters, params pagination.Params) ([]*Record, int, error)
	Update(ctx context.Context, rec *Record) (*Record, error)
	Delete(ctx context.Context, id string) error
}
