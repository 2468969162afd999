package practitioner

import "time"

// Practitioner is the internal flat representation stored in the database
type Practitioner struct {
	ID                string     `json:"id"`
	Prefix            string     `json:"prefix,omitempty"`
	FamilyName        string     `json:"family_name"`
	GivenName         string     `json:"given_name"`
	MiddleName        string     `json:"middle_name,omitempty"`
	Gender            string     `json:"gender"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	NPI               string     `json:"npi"`
	LicenseNumber     string     `json:"license_number"`
	Specialization    string     `json:"specialization"`
	Qualification     string     `json:"qualification,omitempty"`
	YearsOfExperience int        `json:"years_of_experience"`
	AddressLine       string     `json:"address_line,omitempty"`
	City              string     `json:"city,omitempty"`
	State             string     `json:"state,omitempty"`
	PostalCode        string     `json:"postal_code,omitempty"`
	Country           string     `json:"country,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// Filters narrows practitioner list and search queries
type Filters struct {
	Active         *bool
	Specialization string
	Name           string
}
