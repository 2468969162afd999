package fhir

import "time"

// Resource type constants for the resources served by this service
const (
	TypePatient           = "Patient"
	TypePractitioner      = "Practitioner"
	TypeAppointment       = "Appointment"
	TypeMedicationRequest = "MedicationRequest"
	TypeCondition         = "Condition"
	TypeObservation       = "Observation"
	TypeInvoice           = "Invoice"
)

// NPISystem is the identifier system for US National Provider Identifiers
const NPISystem = "http://hl7.org/fhir/sid/us-npi"

// Patient represents a FHIR R4 Patient resource
type Patient struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Active       bool           `json:"active"`
	Name         []HumanName    `json:"name,omitempty"`
	Gender       string         `json:"gender,omitempty"`
	BirthDate    string         `json:"birthDate,omitempty"`
	Address      []Address      `json:"address,omitempty"`
	Telecom      []ContactPoint `json:"telecom,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// PractitionerQualification represents a certification or training of a practitioner
type PractitionerQualification struct {
	Code CodeableConcept `json:"code"`
}

// Practitioner represents a FHIR R4 Practitioner resource
type Practitioner struct {
	ResourceType      string                      `json:"resourceType"`
	ID                string                      `json:"id,omitempty"`
	Active            bool                        `json:"active"`
	Identifier        []Identifier                `json:"identifier,omitempty"`
	Name              []HumanName                 `json:"name,omitempty"`
	Gender            string                      `json:"gender,omitempty"`
	BirthDate         string                      `json:"birthDate,omitempty"`
	Address           []Address                   `json:"address,omitempty"`
	Telecom           []ContactPoint              `json:"telecom,omitempty"`
	Qualification     []PractitionerQualification `json:"qualification,omitempty"`
	Specialization    string                      `json:"specialization,omitempty"`
	LicenseNumber     string                      `json:"license_number,omitempty"`
	YearsOfExperience int                         `json:"years_of_experience,omitempty"`
	CreatedAt         *time.Time                  `json:"created_at,omitempty"`
	UpdatedAt         *time.Time                  `json:"updated_at,omitempty"`
}

// AppointmentParticipant represents a participant in an appointment
type AppointmentParticipant struct {
	Actor    Reference `json:"actor"`
	Status   string    `json:"status"`
	Required string    `json:"required,omitempty"`
}

// Appointment represents a FHIR R4 Appointment resource
type Appointment struct {
	ResourceType       string                   `json:"resourceType"`
	ID                 string                   `json:"id,omitempty"`
	Status             string                   `json:"status"`
	CancelationReason  *CodeableConcept         `json:"cancelationReason,omitempty"`
	ServiceCategory    []CodeableConcept        `json:"serviceCategory,omitempty"`
	ServiceType        []CodeableConcept        `json:"serviceType,omitempty"`
	Specialty          []CodeableConcept        `json:"specialty,omitempty"`
	AppointmentType    *CodeableConcept         `json:"appointmentType,omitempty"`
	ReasonCode         []CodeableConcept        `json:"reasonCode,omitempty"`
	Priority           uint                     `json:"priority"`
	Description        string                   `json:"description,omitempty"`
	Start              *time.Time               `json:"start,omitempty"`
	End                *time.Time               `json:"end,omitempty"`
	MinutesDuration    int                      `json:"minutesDuration,omitempty"`
	Comment            string                   `json:"comment,omitempty"`
	PatientInstruction string                   `json:"patientInstruction,omitempty"`
	Participant        []AppointmentParticipant `json:"participant,omitempty"`
	CreatedAt          *time.Time               `json:"created_at,omitempty"`
	UpdatedAt          *time.Time               `json:"updated_at,omitempty"`
}

// Dosage represents how medication should be taken
type Dosage struct {
	Text        string           `json:"text,omitempty"`
	Timing      *DosageTiming    `json:"timing,omitempty"`
	Route       *CodeableConcept `json:"route,omitempty"`
	DoseAndRate []DoseAndRate    `json:"doseAndRate,omitempty"`
}

// DosageTiming represents when medication should be administered
type DosageTiming struct {
	Code *CodeableConcept `json:"code,omitempty"`
}

// DoseAndRate represents the amount of medication per dose
type DoseAndRate struct {
	DoseQuantity *Quantity `json:"doseQuantity,omitempty"`
}

// DispenseRequest represents medication supply authorization
type DispenseRequest struct {
	ValidityPeriod         *DatePeriod `json:"validityPeriod,omitempty"`
	NumberOfRepeatsAllowed int         `json:"numberOfRepeatsAllowed"`
	Quantity               *Quantity   `json:"quantity,omitempty"`
	DispenseInterval       *Quantity   `json:"dispenseInterval,omitempty"`
}

// MedicationRequest represents a FHIR R4 MedicationRequest resource
type MedicationRequest struct {
	ResourceType              string            `json:"resourceType"`
	ID                        string            `json:"id,omitempty"`
	Status                    string            `json:"status"`
	Intent                    string            `json:"intent"`
	Priority                  string            `json:"priority,omitempty"`
	MedicationCodeableConcept *CodeableConcept  `json:"medicationCodeableConcept,omitempty"`
	Subject                   Reference         `json:"subject"`
	Requester                 *Reference        `json:"requester,omitempty"`
	AuthoredOn                *time.Time        `json:"authoredOn,omitempty"`
	ReasonCode                []CodeableConcept `json:"reasonCode,omitempty"`
	DosageInstruction         []Dosage          `json:"dosageInstruction,omitempty"`
	DispenseRequest           *DispenseRequest  `json:"dispenseRequest,omitempty"`
	Note                      []Annotation      `json:"note,omitempty"`
	CreatedAt                 *time.Time        `json:"created_at,omitempty"`
	UpdatedAt                 *time.Time        `json:"updated_at,omitempty"`
}

// Condition represents a FHIR R4 Condition resource
type Condition struct {
	ResourceType      string           `json:"resourceType"`
	ID                string           `json:"id,omitempty"`
	ClinicalStatus    *CodeableConcept `json:"clinicalStatus,omitempty"`
	Severity          *CodeableConcept `json:"severity,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	Subject           Reference        `json:"subject"`
	OnsetDateTime     string           `json:"onsetDateTime,omitempty"`
	AbatementDateTime string           `json:"abatementDateTime,omitempty"`
	RecordedDate      *time.Time       `json:"recordedDate,omitempty"`
	Recorder          *Reference       `json:"recorder,omitempty"`
	Note              []Annotation     `json:"note,omitempty"`
	CreatedAt         *time.Time       `json:"created_at,omitempty"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

// Observation represents a FHIR R4 Observation resource
type Observation struct {
	ResourceType      string           `json:"resourceType"`
	ID                string           `json:"id,omitempty"`
	Status            string           `json:"status"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	Subject           Reference        `json:"subject"`
	EffectiveDateTime string           `json:"effectiveDateTime,omitempty"`
	ValueQuantity     *Quantity        `json:"valueQuantity,omitempty"`
	ValueString       string           `json:"valueString,omitempty"`
	Performer         []Reference      `json:"performer,omitempty"`
	Note              []Annotation     `json:"note,omitempty"`
	CreatedAt         *time.Time       `json:"created_at,omitempty"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

// Invoice represents a FHIR R4 Invoice resource
type Invoice struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Status       string       `json:"status"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Subject      Reference    `json:"subject"`
	Date         *time.Time   `json:"date,omitempty"`
	TotalNet     *Money       `json:"totalNet,omitempty"`
	TaxAmount    *Money       `json:"tax_amount,omitempty"`
	TotalGross   *Money       `json:"totalGross,omitempty"`
	Note         []Annotation `json:"note,omitempty"`
	AmountPaid   *Money       `json:"amount_paid,omitempty"`
	BalanceDue   *Money       `json:"balance_due,omitempty"`
	DueDate      string       `json:"due_date,omitempty"`
	IsPaid       bool         `json:"is_paid"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}
