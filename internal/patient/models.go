package patient

import "time"

// Administrative gender codes
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// ValidGenders lists the accepted administrative gender codes
var ValidGenders = map[string]bool{
	GenderMale:    true,
	GenderFemale:  true,
	GenderOther:   true,
	GenderUnknown: true,
}

// Patient is the internal flat representation stored in the database.
// Handlers exchange the FHIR shape; the mapping lives in fhir.go.
type Patient struct {
	ID          string     `json:"id"`
	FamilyName  string     `json:"family_name"`
	GivenName   string     `json:"given_name"`
	MiddleName  string     `json:"middle_name,omitempty"`
	Gender      string     `json:"gender"`
	BirthDate   time.Time  `json:"birth_date"`
	AddressLine string     `json:"address_line,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	PostalCode  string     `json:"postal_code,omitempty"`
	Country     string     `json:"country,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Filters narrows patient list queries
type Filters struct {
	Active *bool
	Gender string
	Name   string
}
