package appointment

import (
	"context"
	"time"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ServiceInterface defines the contract for appointment business logic operations
type ServiceInterface interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error)
	Upcoming(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error)
	Today(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error)
	Update(ctx context.Context, a *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	Book(ctx context.Context, id string) (*Appointment, error)
	Cancel(ctx context.Context, id, reason string) (*Appointment, error)
	CheckIn(ctx context.Context, id string) (*Appointment, error)
	Arrive(ctx context.Context, id string) (*Appointment, error)
	Fulfill(ctx context.Context, id string) (*Appointment, error)
	NoShow(ctx context.Context, id string) (*Appointment, error)
	Availability(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) (*Availability, error)
	Statistics(ctx context.Context, from, to *time.Time) (*Statistics, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
