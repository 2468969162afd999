package clinic

import "errors"

var (
	ErrInvalidColor = errors.New("colors must be #RRGGBB hex values")
	ErrInvalidEmail = errors.New("invalid email address")
)
