package practitioner

import "errors"

var (
	ErrPractitionerNotFound  = errors.New("practitioner not found")
	ErrInvalidResourceType   = errors.New("resourceType must be Practitioner")
	ErrMissingName           = errors.New("at least one name with family and given parts is required")
	ErrMissingGender         = errors.New("gender is required")
	ErrInvalidGender         = errors.New("gender must be one of male, female, other, unknown")
	ErrMissingNPI            = errors.New("an NPI identifier is required")
	ErrInvalidNPI            = errors.New("NPI must be exactly 10 digits")
	ErrNPITaken              = errors.New("a practitioner with this NPI already exists")
	ErrMissingLicense        = errors.New("license number is required")
	ErrMissingSpecialization = errors.New("specialization is required")
	ErrInvalidBirthDate      = errors.New("birthDate must use the YYYY-MM-DD format")
)
