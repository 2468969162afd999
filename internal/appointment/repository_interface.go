package appointment

import (
	"context"
	"time"
)

// RepositoryInterface defines the contract for appointment data access
type RepositoryInterface interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error)
	Update(ctx context.Context, a *Appointment) (*Appointment, error)
	UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	FindConflicts(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error)
	CountByStatus(ctx context.Context, from, to *time.Time) (map[string]int, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
