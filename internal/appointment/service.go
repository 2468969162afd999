package appointment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clinicore/patient-management-service/internal/cache"
	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

const (
	availabilityKeyPrefix = "availability:"
	availabilityTTL       = 15 * time.Minute
)

// statusEvents maps workflow statuses to the routing key published on entry
var statusEvents = map[string]string{
	StatusBooked:    messaging.EventAppointmentBooked,
	StatusCancelled: messaging.EventAppointmentCancelled,
	StatusFulfilled: messaging.EventAppointmentFulfilled,
	StatusNoShow:    messaging.EventAppointmentNoShow,
}

// MetricsRecorder records workflow transition metrics
type MetricsRecorder interface {
	RecordAppointmentTransition(ctx context.Context, from, to string)
}

type Service struct {
	repo      RepositoryInterface
	cache     cache.Store
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	now       func() time.Time
}

func NewService(repo RepositoryInterface, store cache.Store, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	return &Service{
		repo:      repo,
		cache:     store,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// PaginatedAppointments is the list payload returned by List, Upcoming and Today
type PaginatedAppointments struct {
	Appointments []Appointment   `json:"appointments"`
	Pagination   pagination.Meta `json:"pagination"`
}

func (s *Service) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	if err := s.validateSchedule(a, true); err != nil {
		return nil, err
	}

	conflicts, err := s.repo.FindConflicts(ctx, a.PractitionerID, a.Start, a.End, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, ErrTimeConflict
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, created.PractitionerID)
	s.recordTransition(ctx, "", created.Status)
	s.publishStatusEvent(ctx, created)

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error) {
	params.Validate()

	appointments, total, err := s.repo.List(ctx, f, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appointments == nil {
		appointments = []Appointment{}
	}

	return &PaginatedAppointments{
		Appointments: appointments,
		Pagination:   params.CalculateMeta(total),
	}, nil
}

// Upcoming lists open appointments starting within the next 30 days
func (s *Service) Upcoming(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error) {
	now := s.now()
	horizon := now.Add(UpcomingHorizon)

	f.Statuses = upcomingStatuses
	f.From = &now
	f.To = &horizon

	return s.List(ctx, f, params)
}

// Today lists appointments starting on the current calendar day
func (s *Service) Today(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	f.From = &dayStart
	f.To = &dayEnd

	return s.List(ctx, f, params)
}

func (s *Service) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	existing, err := s.repo.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(existing.Status, a.Status) {
		return nil, ErrInvalidTransition
	}

	startChanged := !a.Start.Equal(existing.Start)
	if err := s.validateSchedule(a, startChanged); err != nil {
		return nil, err
	}

	conflicts, err := s.repo.FindConflicts(ctx, a.PractitionerID, a.Start, a.End, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, ErrTimeConflict
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, existing.PractitionerID)
	if updated.PractitionerID != existing.PractitionerID {
		s.invalidateAvailability(ctx, updated.PractitionerID)
	}
	if updated.Status != existing.Status {
		s.recordTransition(ctx, existing.Status, updated.Status)
		s.publishStatusEvent(ctx, updated)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if a.Status == StatusFulfilled {
		return ErrDeleteFulfilled
	}
	if a.Start.Before(s.now()) && a.Status != StatusCancelled && a.Status != StatusNoShow {
		return ErrDeletePast
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateAvailability(ctx, a.PractitionerID)

	return nil
}

// Book confirms a proposed or pending appointment. The practitioner's
// calendar is re-verified at booking time and both participants are marked
// accepted.
func (s *Service) Book(ctx context.Context, id string) (*Appointment, error) {
	upd := StatusUpdate{
		Status:             StatusBooked,
		PatientStatus:      ParticipantAccepted,
		PractitionerStatus: ParticipantAccepted,
	}
	return s.transition(ctx, id, upd, func(a *Appointment) error {
		if a.Status != StatusProposed && a.Status != StatusPending {
			return ErrBookFromStatus
		}
		conflicts, err := s.repo.FindConflicts(ctx, a.PractitionerID, a.Start, a.End, a.ID)
		if err != nil {
			return fmt.Errorf("failed to check for conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return ErrTimeConflict
		}
		return nil
	})
}

// Cancel cancels an appointment that has not started its visit, optionally
// recording the reason.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	upd := StatusUpdate{Status: StatusCancelled, CancellationReason: reason}
	return s.transition(ctx, id, upd, func(a *Appointment) error {
		switch a.Status {
		case StatusProposed, StatusPending, StatusBooked, StatusWaitlist:
			return nil
		}
		return ErrCancelFromStatus
	})
}

// CheckIn marks a booked appointment as checked in and records the
// patient's acceptance. Check-in opens 30 minutes before the start time and
// closes at the end time.
func (s *Service) CheckIn(ctx context.Context, id string) (*Appointment, error) {
	upd := StatusUpdate{Status: StatusCheckedIn, PatientStatus: ParticipantAccepted}
	return s.transition(ctx, id, upd, func(a *Appointment) error {
		if a.Status != StatusBooked {
			return ErrCheckInNotBooked
		}
		now := s.now()
		if now.Before(a.Start.Add(-CheckInWindow)) || !now.Before(a.End) {
			return ErrCheckInOutsideWindow
		}
		return nil
	})
}

// Arrive marks the patient as arrived
func (s *Service) Arrive(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusUpdate{Status: StatusArrived}, nil)
}

// Fulfill marks an appointment as completed
func (s *Service) Fulfill(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusUpdate{Status: StatusFulfilled}, nil)
}

// NoShow marks an appointment the patient missed. Only allowed once the
// scheduled end time has passed.
func (s *Service) NoShow(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusUpdate{Status: StatusNoShow}, func(a *Appointment) error {
		if s.now().Before(a.End) {
			return ErrNoShowBeforeEnd
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, id string, upd StatusUpdate, check func(a *Appointment) error) (*Appointment, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(a); err != nil {
			return nil, err
		}
	}
	if !CanTransition(a.Status, upd.Status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, updated.PractitionerID)
	if updated.Status != a.Status {
		s.recordTransition(ctx, a.Status, updated.Status)
		s.publishStatusEvent(ctx, updated)
	}

	return updated, nil
}

// Availability reports whether a practitioner is free in the given window.
// Results are cached for 15 minutes and invalidated on any write touching
// the practitioner's calendar.
func (s *Service) Availability(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) (*Availability, error) {
	if practitionerID == "" || start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, ErrInvalidAvailabilityRange
	}

	key := availabilityKey(practitionerID, start, end, excludeID)

	if s.cache != nil {
		var cached Availability
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("Warning: availability cache read failed: %v", err)
		} else if found {
			return &cached, nil
		}
	}

	conflicts, err := s.repo.FindConflicts(ctx, practitionerID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	result := &Availability{
		PractitionerID: practitionerID,
		Start:          start,
		End:            end,
		Available:      len(conflicts) == 0,
		ConflictIDs:    conflicts,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result, availabilityTTL); err != nil {
			log.Printf("Warning: availability cache write failed: %v", err)
		}
	}

	return result, nil
}

// Statistics counts appointments per status, optionally bounded by start time.
func (s *Service) Statistics(ctx context.Context, from, to *time.Time) (*Statistics, error) {
	if from != nil && to != nil && !to.After(*from) {
		return nil, ErrInvalidStatisticsRange
	}

	counts, err := s.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	return &Statistics{
		Total:    total,
		ByStatus: counts,
		From:     from,
		To:       to,
	}, nil
}

func availabilityKey(practitionerID string, start, end time.Time, excludeID string) string {
	key := fmt.Sprintf("%s%s:%d:%d", availabilityKeyPrefix, practitionerID, start.Unix(), end.Unix())
	if excludeID != "" {
		key += ":" + excludeID
	}
	return key
}

// validateSchedule enforces scheduling limits. The past check only applies
// when the start time is being set or moved.
func (s *Service) validateSchedule(a *Appointment, checkPast bool) error {
	if !a.End.After(a.Start) {
		return ErrEndBeforeStart
	}
	if a.End.Sub(a.Start) > MaxDuration {
		return ErrDurationTooLong
	}
	if checkPast && a.Start.Before(s.now().Add(-PastGrace)) {
		return ErrStartInPast
	}
	return nil
}

func (s *Service) invalidateAvailability(ctx context.Context, practitionerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, availabilityKeyPrefix+practitionerID+":"); err != nil {
		log.Printf("Warning: failed to invalidate availability cache: %v", err)
	}
}

func (s *Service) recordTransition(ctx context.Context, from, to string) {
	if s.metrics != nil {
		s.metrics.RecordAppointmentTransition(ctx, from, to)
	}
}

func (s *Service) publishStatusEvent(ctx context.Context, a *Appointment) {
	if s.publisher == nil {
		return
	}

	routingKey, ok := statusEvents[a.Status]
	if !ok {
		return
	}

	event := messaging.AppointmentEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.AppointmentEventData{
			AppointmentID:  a.ID,
			PatientID:      a.PatientID,
			PractitionerID: a.PractitionerID,
			Status:         a.Status,
			Start:          a.Start,
			End:            a.End,
			Reason:         a.CancellationReason,
		},
	}

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
