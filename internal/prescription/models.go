package prescription

import "time"

// FHIR MedicationRequest status codes
const (
	StatusActive         = "active"
	StatusOnHold         = "on-hold"
	StatusCancelled      = "cancelled"
	StatusCompleted      = "completed"
	StatusEnteredInError = "entered-in-error"
	StatusStopped        = "stopped"
	StatusDraft          = "draft"
	StatusUnknown        = "unknown"
)

// ValidStatuses lists the accepted prescription status codes
var ValidStatuses = map[string]bool{
	StatusActive:         true,
	StatusOnHold:         true,
	StatusCancelled:      true,
	StatusCompleted:      true,
	StatusEnteredInError: true,
	StatusStopped:        true,
	StatusDraft:          true,
	StatusUnknown:        true,
}

// FHIR MedicationRequest intent codes
const (
	IntentProposal      = "proposal"
	IntentPlan          = "plan"
	IntentOrder         = "order"
	IntentOriginalOrder = "original-order"
)

var validIntents = map[string]bool{
	IntentProposal:      true,
	IntentPlan:          true,
	IntentOrder:         true,
	IntentOriginalOrder: true,
}

// FHIR request priority codes
const (
	PriorityRoutine = "routine"
	PriorityUrgent  = "urgent"
	PriorityASAP    = "asap"
	PriorityStat    = "stat"
)

var validPriorities = map[string]bool{
	PriorityRoutine: true,
	PriorityUrgent:  true,
	PriorityASAP:    true,
	PriorityStat:    true,
}

// Prescription is the internal flat representation stored in the database
type Prescription struct {
	ID                   string     `json:"id"`
	Status               string     `json:"status"`
	Intent               string     `json:"intent"`
	Priority             string     `json:"priority"`
	MedicationName       string     `json:"medication_name"`
	MedicationCode       string     `json:"medication_code,omitempty"`
	MedicationForm       string     `json:"medication_form,omitempty"`
	MedicationStrength   string     `json:"medication_strength,omitempty"`
	DosageText           string     `json:"dosage_text"`
	DosageRoute          string     `json:"dosage_route,omitempty"`
	DosageFrequency      string     `json:"dosage_frequency,omitempty"`
	DoseQuantity         float64    `json:"dose_quantity,omitempty"`
	DoseUnit             string     `json:"dose_unit,omitempty"`
	DispenseQuantity     float64    `json:"dispense_quantity,omitempty"`
	DispenseUnit         string     `json:"dispense_unit,omitempty"`
	RefillsAllowed       int        `json:"refills_allowed"`
	DispenseIntervalDays int        `json:"dispense_interval_days"`
	AuthoredOn           time.Time  `json:"authored_on"`
	ValidityStart        *time.Time `json:"validity_start,omitempty"`
	ValidityEnd          *time.Time `json:"validity_end,omitempty"`
	Reason               string     `json:"reason,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	PatientID            string     `json:"patient_id"`
	PrescriberID         string     `json:"prescriber_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// IsCurrent reports whether the prescription is dispensable today: active or
// on hold, and inside its validity window when one is set.
func (p *Prescription) IsCurrent(now time.Time) bool {
	if p.Status != StatusActive && p.Status != StatusOnHold {
		return false
	}
	if p.ValidityStart != nil && now.Before(*p.ValidityStart) {
		return false
	}
	if p.ValidityEnd != nil && now.After(p.ValidityEnd.Add(24*time.Hour)) {
		return false
	}
	return true
}

// CanRefill reports whether a refill may be dispensed
func (p *Prescription) CanRefill(now time.Time) bool {
	return p.RefillsAllowed > 0 && p.Status == StatusActive && p.IsCurrent(now)
}

// Filters narrows prescription list queries
type Filters struct {
	Status       string
	PatientID    string
	PrescriberID string
}
