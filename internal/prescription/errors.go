package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrInvalidResourceType  = errors.New("resourceType must be MedicationRequest")
	ErrInvalidStatus        = errors.New("invalid prescription status")
	ErrInvalidIntent        = errors.New("invalid prescription intent")
	ErrInvalidPriority      = errors.New("invalid prescription priority")
	ErrMissingMedication    = errors.New("medication name is required")
	ErrMissingDosage        = errors.New("a dosage instruction is required")
	ErrMissingSubject       = errors.New("a Patient subject is required")
	ErrMissingRequester     = errors.New("a Practitioner requester is required")
	ErrNegativeRefills      = errors.New("numberOfRepeatsAllowed cannot be negative")
	ErrInvalidValidity      = errors.New("validityPeriod end cannot be before start")
)
