package fhir

import "time"

// DateLayout is the FHIR date format (no time component)
const DateLayout = "2006-01-02"

// FormatDate renders a time as a FHIR date string, empty when nil
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a FHIR date string, returning nil for the empty string
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
