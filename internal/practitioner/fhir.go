package practitioner

import (
	"strings"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

var validGenders = map[string]bool{
	"male":    true,
	"female":  true,
	"other":   true,
	"unknown": true,
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ToFHIR converts the stored practitioner into its FHIR resource shape
func ToFHIR(p *Practitioner) *fhir.Practitioner {
	name := fhir.HumanName{
		Use:    "official",
		Family: p.FamilyName,
		Given:  []string{p.GivenName},
	}
	if p.MiddleName != "" {
		name.Given = append(name.Given, p.MiddleName)
	}
	if p.Prefix != "" {
		name.Prefix = []string{p.Prefix}
	}
	name.Text = strings.TrimSpace(p.Prefix + " " + strings.Join(append(name.Given, p.FamilyName), " "))

	res := &fhir.Practitioner{
		ResourceType: fhir.TypePractitioner,
		ID:           p.ID,
		Active:       p.Active,
		Identifier: []fhir.Identifier{
			{Use: "official", System: fhir.NPISystem, Value: p.NPI},
		},
		Name:              []fhir.HumanName{name},
		Gender:            p.Gender,
		Specialization:    p.Specialization,
		LicenseNumber:     p.LicenseNumber,
		YearsOfExperience: p.YearsOfExperience,
		CreatedAt:         &p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	if p.BirthDate != nil {
		res.BirthDate = p.BirthDate.Format(fhir.DateLayout)
	}
	if p.Qualification != "" {
		res.Qualification = []fhir.PractitionerQualification{
			{Code: fhir.CodeableConcept{Text: p.Qualification}},
		}
	}

	if p.AddressLine != "" || p.City != "" || p.State != "" || p.PostalCode != "" || p.Country != "" {
		addr := fhir.Address{
			Use:        "work",
			City:       p.City,
			State:      p.State,
			PostalCode: p.PostalCode,
			Country:    p.Country,
		}
		if p.AddressLine != "" {
			addr.Line = []string{p.AddressLine}
		}
		res.Address = []fhir.Address{addr}
	}

	if p.Phone != "" {
		res.Telecom = append(res.Telecom, fhir.ContactPoint{System: "phone", Value: p.Phone, Use: "work"})
	}
	if p.Email != "" {
		res.Telecom = append(res.Telecom, fhir.ContactPoint{System: "email", Value: p.Email, Use: "work"})
	}

	return res
}

// FromFHIR validates an incoming FHIR Practitioner and flattens it for storage
func FromFHIR(res *fhir.Practitioner) (*Practitioner, error) {
	if res.ResourceType != fhir.TypePractitioner {
		return nil, ErrInvalidResourceType
	}
	if len(res.Name) == 0 || res.Name[0].Family == "" || len(res.Name[0].Given) == 0 || res.Name[0].Given[0] == "" {
		return nil, ErrMissingName
	}
	if res.Gender == "" {
		return nil, ErrMissingGender
	}
	if !validGenders[res.Gender] {
		return nil, ErrInvalidGender
	}

	var npi string
	for _, ident := range res.Identifier {
		if ident.System == fhir.NPISystem {
			npi = ident.Value
			break
		}
	}
	if npi == "" {
		return nil, ErrMissingNPI
	}
	if len(npi) != 10 || !isDigits(npi) {
		return nil, ErrInvalidNPI
	}
	if res.LicenseNumber == "" {
		return nil, ErrMissingLicense
	}
	if res.Specialization == "" {
		return nil, ErrMissingSpecialization
	}

	p := &Practitioner{
		ID:                res.ID,
		FamilyName:        res.Name[0].Family,
		GivenName:         res.Name[0].Given[0],
		Gender:            res.Gender,
		NPI:               npi,
		LicenseNumber:     res.LicenseNumber,
		Specialization:    res.Specialization,
		YearsOfExperience: res.YearsOfExperience,
		Active:            res.Active,
	}
	if len(res.Name[0].Given) > 1 {
		p.MiddleName = res.Name[0].Given[1]
	}
	if len(res.Name[0].Prefix) > 0 {
		p.Prefix = res.Name[0].Prefix[0]
	}
	if len(res.Qualification) > 0 {
		p.Qualification = res.Qualification[0].Code.Text
	}

	if res.BirthDate != "" {
		birthDate, err := fhir.ParseDate(res.BirthDate)
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		p.BirthDate = birthDate
	}

	if len(res.Address) > 0 {
		addr := res.Address[0]
		if len(addr.Line) > 0 {
			p.AddressLine = addr.Line[0]
		}
		p.City = addr.City
		p.State = addr.State
		p.PostalCode = addr.PostalCode
		p.Country = addr.Country
	}

	for _, t := range res.Telecom {
		switch t.System {
		case "phone":
			p.Phone = t.Value
		case "email":
			p.Email = t.Value
		}
	}

	return p, nil
}
