package appointment

import (
	"strings"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

func conceptText(c *fhir.CodeableConcept) string {
	if c == nil {
		return ""
	}
	if c.Text != "" {
		return c.Text
	}
	if len(c.Coding) > 0 {
		return c.Coding[0].Display
	}
	return ""
}

func textConcept(text string) *fhir.CodeableConcept {
	if text == "" {
		return nil
	}
	return &fhir.CodeableConcept{Text: text}
}

// ToFHIR converts the stored appointment into its FHIR resource shape
func ToFHIR(a *Appointment) *fhir.Appointment {
	start := a.Start
	end := a.End

	practitionerRequired := a.PractitionerRequired
	if practitionerRequired == "" {
		practitionerRequired = RequiredDefault
	}

	res := &fhir.Appointment{
		ResourceType:       fhir.TypeAppointment,
		ID:                 a.ID,
		Status:             a.Status,
		CancelationReason:  textConcept(a.CancellationReason),
		AppointmentType:    textConcept(a.AppointmentType),
		Priority:           uint(a.Priority),
		Description:        a.Description,
		Start:              &start,
		End:                &end,
		MinutesDuration:    a.MinutesDuration,
		Comment:            a.Comment,
		PatientInstruction: a.PatientInstruction,
		Participant: []fhir.AppointmentParticipant{
			{
				Actor:    fhir.Reference{Reference: "Patient/" + a.PatientID},
				Status:   a.PatientStatus,
				Required: "required",
			},
			{
				Actor:    fhir.Reference{Reference: "Practitioner/" + a.PractitionerID},
				Status:   a.PractitionerStatus,
				Required: practitionerRequired,
			},
		},
		CreatedAt: &a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.ServiceCategory != "" {
		res.ServiceCategory = []fhir.CodeableConcept{{Text: a.ServiceCategory}}
	}
	if a.ServiceType != "" {
		res.ServiceType = []fhir.CodeableConcept{{Text: a.ServiceType}}
	}
	if a.Specialty != "" {
		res.Specialty = []fhir.CodeableConcept{{Text: a.Specialty}}
	}
	if a.ReasonCode != "" || a.ReasonDescription != "" {
		res.ReasonCode = []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{Code: a.ReasonCode}},
			Text:   a.ReasonDescription,
		}}
	}

	return res
}

// FromFHIR validates an incoming FHIR Appointment and flattens it for storage
func FromFHIR(res *fhir.Appointment) (*Appointment, error) {
	if res.ResourceType != fhir.TypeAppointment {
		return nil, ErrInvalidResourceType
	}

	status := res.Status
	if status == "" {
		status = StatusProposed
	}
	if !ValidStatuses[status] {
		return nil, ErrInvalidStatus
	}

	if res.Start == nil {
		return nil, ErrMissingStart
	}
	if res.End == nil {
		return nil, ErrMissingEnd
	}
	if !res.End.After(*res.Start) {
		return nil, ErrEndBeforeStart
	}

	a := &Appointment{
		ID:                 res.ID,
		Status:             status,
		CancellationReason: conceptText(res.CancelationReason),
		AppointmentType:    conceptText(res.AppointmentType),
		Priority:           int(res.Priority),
		Description:        res.Description,
		Start:              *res.Start,
		End:                *res.End,
		MinutesDuration:    res.MinutesDuration,
		Comment:            res.Comment,
		PatientInstruction: res.PatientInstruction,
		PatientStatus:      ParticipantNeedsAction,
		PractitionerStatus: ParticipantNeedsAction,
	}

	if a.MinutesDuration == 0 {
		a.MinutesDuration = int(res.End.Sub(*res.Start).Minutes())
	}
	if len(res.ServiceCategory) > 0 {
		a.ServiceCategory = conceptText(&res.ServiceCategory[0])
	}
	if len(res.ServiceType) > 0 {
		a.ServiceType = conceptText(&res.ServiceType[0])
	}
	if len(res.Specialty) > 0 {
		a.Specialty = conceptText(&res.Specialty[0])
	}
	if len(res.ReasonCode) > 0 {
		if len(res.ReasonCode[0].Coding) > 0 {
			a.ReasonCode = res.ReasonCode[0].Coding[0].Code
		}
		a.ReasonDescription = res.ReasonCode[0].Text
	}

	for _, part := range res.Participant {
		ref := part.Actor.Reference
		partStatus := part.Status
		if partStatus == "" {
			partStatus = ParticipantNeedsAction
		}
		if !validParticipantStatuses[partStatus] {
			return nil, ErrInvalidParticipant
		}

		switch {
		case strings.HasPrefix(ref, "Patient/"):
			a.PatientID = strings.TrimPrefix(ref, "Patient/")
			a.PatientStatus = partStatus
		case strings.HasPrefix(ref, "Practitioner/"):
			a.PractitionerID = strings.TrimPrefix(ref, "Practitioner/")
			a.PractitionerStatus = partStatus
			required := part.Required
			if required == "" {
				required = RequiredDefault
			}
			if !validParticipantRequired[required] {
				return nil, ErrInvalidRequired
			}
			a.PractitionerRequired = required
		}
	}

	if a.PatientID == "" {
		return nil, ErrMissingPatient
	}
	if a.PractitionerID == "" {
		return nil, ErrMissingPractitioner
	}

	return a, nil
}
