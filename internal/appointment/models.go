package appointment

import "time"

// FHIR appointment status codes
const (
	StatusProposed       = "proposed"
	StatusPending        = "pending"
	StatusBooked         = "booked"
	StatusArrived        = "arrived"
	StatusFulfilled      = "fulfilled"
	StatusCancelled      = "cancelled"
	StatusNoShow         = "noshow"
	StatusEnteredInError = "entered-in-error"
	StatusCheckedIn      = "checked-in"
	StatusWaitlist       = "waitlist"
)

// ValidStatuses lists the accepted appointment status codes
var ValidStatuses = map[string]bool{
	StatusProposed:       true,
	StatusPending:        true,
	StatusBooked:         true,
	StatusArrived:        true,
	StatusFulfilled:      true,
	StatusCancelled:      true,
	StatusNoShow:         true,
	StatusEnteredInError: true,
	StatusCheckedIn:      true,
	StatusWaitlist:       true,
}

// Participation status codes for appointment participants
const (
	ParticipantAccepted    = "accepted"
	ParticipantDeclined    = "declined"
	ParticipantTentative   = "tentative"
	ParticipantNeedsAction = "needs-action"
)

var validParticipantStatuses = map[string]bool{
	ParticipantAccepted:    true,
	ParticipantDeclined:    true,
	ParticipantTentative:   true,
	ParticipantNeedsAction: true,
}

// RequiredDefault is assumed when a participant omits the required element
const RequiredDefault = "required"

var validParticipantRequired = map[string]bool{
	"required":         true,
	"optional":         true,
	"information-only": true,
}

// Scheduling limits enforced on create and update
const (
	MaxDuration = 24 * time.Hour
	// PastGrace tolerates clock skew when booking an appointment starting "now"
	PastGrace = 5 * time.Minute
	// CheckInWindow is how early a patient may check in before the start time
	CheckInWindow = 30 * time.Minute
	// UpcomingHorizon bounds the upcoming-appointments view
	UpcomingHorizon = 30 * 24 * time.Hour
)

// Appointment is the internal flat representation stored in the database
type Appointment struct {
	ID                   string     `json:"id"`
	Status               string     `json:"status"`
	CancellationReason   string     `json:"cancellation_reason,omitempty"`
	ServiceCategory      string     `json:"service_category,omitempty"`
	ServiceType          string     `json:"service_type,omitempty"`
	Specialty            string     `json:"specialty,omitempty"`
	AppointmentType      string     `json:"appointment_type,omitempty"`
	ReasonCode           string     `json:"reason_code,omitempty"`
	ReasonDescription    string     `json:"reason_description,omitempty"`
	Priority             int        `json:"priority"`
	Description          string     `json:"description,omitempty"`
	Start                time.Time  `json:"start"`
	End                  time.Time  `json:"end"`
	MinutesDuration      int        `json:"minutes_duration"`
	Comment              string     `json:"comment,omitempty"`
	PatientInstruction   string     `json:"patient_instruction,omitempty"`
	PatientID            string     `json:"patient_id"`
	PatientStatus        string     `json:"patient_status"`
	PractitionerID       string     `json:"practitioner_id"`
	PractitionerStatus   string     `json:"practitioner_status"`
	PractitionerRequired string     `json:"practitioner_required"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// StatusUpdate is the partial write applied by a workflow transition.
// Empty fields leave the stored value unchanged.
type StatusUpdate struct {
	Status             string
	CancellationReason string
	PatientStatus      string
	PractitionerStatus string
}

// Filters narrows appointment list queries
type Filters struct {
	Status         string
	Statuses       []string
	PatientID      string
	PractitionerID string
	From           *time.Time
	To             *time.Time
}

// Availability is the result of a practitioner availability check
type Availability struct {
	PractitionerID string    `json:"practitioner_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Available      bool      `json:"available"`
	ConflictIDs    []string  `json:"conflict_ids,omitempty"`
}

// Statistics summarizes appointment volume by status over a date range
type Statistics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	From     *time.Time     `json:"from,omitempty"`
	To       *time.Time     `json:"to,omitempty"`
}

// CancelRequest carries the optional reason for a cancellation
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}
