package patient

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidResourceType = errors.New("resourceType must be Patient")
	ErrMissingName         = errors.New("at least one name with family and given parts is required")
	ErrMissingGender       = errors.New("gender is required")
	ErrInvalidGender       = errors.New("gender must be one of male, female, other, unknown")
	ErrMissingBirthDate    = errors.New("birthDate is required")
	ErrInvalidBirthDate    = errors.New("birthDate must use the YYYY-MM-DD format")
	ErrBirthDateInFuture   = errors.New("birthDate cannot be in the future")
)
