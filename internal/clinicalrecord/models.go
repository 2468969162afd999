package clinicalrecord

import "time"

// Record type codes
const (
	TypeCondition     = "condition"
	TypeObservation   = "observation"
	TypeAllergy       = "allergy"
	TypeProcedure     = "procedure"
	TypeFamilyHistory = "family-history"
)

// ValidRecordTypes lists the accepted clinical record types
var ValidRecordTypes = map[string]bool{
	TypeCondition:     true,
	TypeObservation:   true,
	TypeAllergy:       true,
	TypeProcedure:     true,
	TypeFamilyHistory: true,
}

// Clinical status codes, following the FHIR condition-clinical value set
const (
	StatusActive     = "active"
	StatusRecurrence = "recurrence"
	StatusRelapse    = "relapse"
	StatusInactive   = "inactive"
	StatusRemission  = "remission"
	StatusResolved   = "resolved"
)

// ValidStatuses lists the accepted clinical status codes
var ValidStatuses = map[string]bool{
	StatusActive:     true,
	StatusRecurrence: true,
	StatusRelapse:    true,
	StatusInactive:   true,
	StatusRemission:  true,
	StatusResolved:   true,
}

// Severity codes
const (
	SeverityMild            = "mild"
	SeverityModerate        = "moderate"
	SeveritySevere          = "severe"
	SeverityLifeThreatening = "life-threatening"
)

var validSeverities = map[string]bool{
	SeverityMild:            true,
	SeverityModerate:        true,
	SeveritySevere:          true,
	SeverityLifeThreatening: true,
}

// Record is the internal flat representation stored in the database.
// A single table backs conditions, observations, allergies, procedures
// and family history entries, discriminated by RecordType.
type Record struct {
	ID             string     `json:"id"`
	RecordType     string     `json:"record_type"`
	Status         string     `json:"status"`
	Severity       string     `json:"severity,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ValueQuantity  float64    `json:"value_quantity,omitempty"`
	ValueUnit      string     `json:"value_unit,omitempty"`
	OnsetDate      *time.Time `json:"onset_date,omitempty"`
	ResolutionDate *time.Time `json:"resolution_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	PatientID      string     `json:"patient_id"`
	PractitionerID string     `json:"practitioner_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Filters narrows clinical record list queries
type Filters struct {
	RecordType string
	Status     string
	PatientID  string
}
