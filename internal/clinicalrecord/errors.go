package clinicalrecord

import "errors"

var (
	ErrRecordNotFound         = errors.New("clinical record not found")
	ErrInvalidResourceType    = errors.New("resourceType must be Condition or Observation")
	ErrInvalidRecordType      = errors.New("invalid record type")
	ErrInvalidStatus          = errors.New("invalid clinical status")
	ErrInvalidSeverity        = errors.New("invalid severity")
	ErrMissingTitle           = errors.New("record title is required")
	ErrMissingSubject         = errors.New("subject patient reference is required")
	ErrInvalidOnsetDate       = errors.New("onset date must be in YYYY-MM-DD format")
	ErrInvalidResolutionDate  = errors.New("resolution date must be in YYYY-MM-DD format")
	ErrResolutionBeforeOnset  = errors.New("resolution date cannot be before onset date")
	ErrNegativeValueQuantity  = errors.New("value quantity cannot be negative")
)
