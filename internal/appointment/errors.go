package appointment

import "errors"

var (
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrInvalidResourceType      = errors.New("resourceType must be Appointment")
	ErrInvalidStatus            = errors.New("invalid appointment status")
	ErrInvalidTransition        = errors.New("status transition not allowed")
	ErrMissingPatient           = errors.New("a Patient participant is required")
	ErrMissingPractitioner      = errors.New("a Practitioner participant is required")
	ErrInvalidParticipant       = errors.New("invalid participant status")
	ErrInvalidRequired          = errors.New("invalid participant required code")
	ErrMissingStart             = errors.New("start is required")
	ErrMissingEnd               = errors.New("end is required")
	ErrEndBeforeStart           = errors.New("end must be after start")
	ErrStartInPast              = errors.New("start cannot be in the past")
	ErrDurationTooLong          = errors.New("appointment cannot be longer than 24 hours")
	ErrTimeConflict             = errors.New("practitioner has a conflicting appointment in this time slot")
	ErrDeleteFulfilled          = errors.New("fulfilled appointments cannot be deleted")
	ErrDeletePast               = errors.New("past appointments can only be deleted when cancelled or marked noshow")
	ErrBookFromStatus           = errors.New("only proposed or pending appointments can be booked")
	ErrCancelFromStatus         = errors.New("only proposed, pending, booked or waitlisted appointments can be cancelled")
	ErrCheckInNotBooked         = errors.New("only booked appointments can be checked in")
	ErrCheckInOutsideWindow     = errors.New("check-in is only allowed from 30 minutes before start until the end time")
	ErrNoShowBeforeEnd          = errors.New("appointments can only be marked noshow after the end time")
	ErrInvalidAvailabilityRange = errors.New("availability requires practitioner, start and end with end after start")
	ErrInvalidStatisticsRange   = errors.New("statistics range requires to after from")
)
