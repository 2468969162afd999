package patient

import (
	"strings"
	"time"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

// ToFHIR converts the stored patient into its FHIR resource shape
func ToFHIR(p *Patient) *fhir.Patient {
	name := fhir.HumanName{
		Use:    "official",
		Family: p.FamilyName,
		Given:  []string{p.GivenName},
	}
	if p.MiddleName != "" {
		name.Given = append(name.Given, p.MiddleName)
	}
	name.Text = strings.Join(append(name.Given, p.FamilyName), " ")

	res := &fhir.Patient{
		ResourceType: fhir.TypePatient,
		ID:           p.ID,
		Active:       p.Active,
		Name:         []fhir.HumanName{name},
		Gender:       p.Gender,
		BirthDate:    p.BirthDate.Format(fhir.DateLayout),
		CreatedAt:    &p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	if p.AddressLine != "" || p.City != "" || p.State != "" || p.PostalCode != "" || p.Country != "" {
		addr := fhir.Address{
			Use:        "home",
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
		res.Telecom = append(res.Telecom, fhir.ContactPoint{System: "phone", Value: p.Phone, Use: "home"})
	}
	if p.Email != "" {
		res.Telecom = append(res.Telecom, fhir.ContactPoint{System: "email", Value: p.Email, Use: "home"})
	}

	return res
}

// FromFHIR validates an incoming FHIR Patient and flattens it for storage
func FromFHIR(res *fhir.Patient) (*Patient, error) {
	if res.ResourceType != fhir.TypePatient {
		return nil, ErrInvalidResourceType
	}
	if len(res.Name) == 0 || res.Name[0].Family == "" || len(res.Name[0].Given) == 0 || res.Name[0].Given[0] == "" {
		return nil, ErrMissingName
	}
	if res.Gender == "" {
		return nil, ErrMissingGender
	}
	if !ValidGenders[res.Gender] {
		return nil, ErrInvalidGender
	}
	if res.BirthDate == "" {
		return nil, ErrMissingBirthDate
	}
	birthDate, err := fhir.ParseDate(res.BirthDate)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	if birthDate.After(time.Now()) {
		return nil, ErrBirthDateInFuture
	}

	p := &Patient{
		ID:         res.ID,
		FamilyName: res.Name[0].Family,
		GivenName:  res.Name[0].Given[0],
		Gender:     res.Gender,
		BirthDate:  *birthDate,
		Active:     res.Active,
	}
	if len(res.Name[0].Given) > 1 {
		p.MiddleName = res.Name[0].Given[1]
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
