package appointment

import (
	"testing"
	"time"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

func validResource() *fhir.Appointment {
	start := time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	return &fhir.Appointment{
		ResourceType: fhir.TypeAppointment,
		Status:       StatusProposed,
		ServiceType:  []fhir.CodeableConcept{{Text: "Consultation"}},
		ReasonCode: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{Code: "chest-pain"}},
			Text:   "Recurring chest pain",
		}},
		Priority:    5,
		Description: "Initial consultation",
		Start:       &start,
		End:         &end,
		Participant: []fhir.AppointmentParticipant{
			{Actor: fhir.Reference{Reference: "Patient/patient-1"}, Status: ParticipantAccepted},
			{Actor: fhir.Reference{Reference: "Practitioner/practitioner-1"}, Status: ParticipantNeedsAction},
		},
	}
}

func TestFromFHIR_Valid(t *testing.T) {
	a, err := FromFHIR(validResource())
	if err != nil {
		t.Fatalf("FromFHIR failed: %v", err)
	}

	if a.PatientID != "patient-1" || a.PractitionerID != "practitioner-1" {
		t.Errorf("Unexpected participants: %s / %s", a.PatientID, a.PractitionerID)
	}
	if a.PatientStatus != ParticipantAccepted {
		t.Errorf("Expected patient status accepted, got %s", a.PatientStatus)
	}
	if a.ReasonCode != "chest-pain" || a.ReasonDescription != "Recurring chest pain" {
		t.Errorf("Unexpected reason: %s / %s", a.ReasonCode, a.ReasonDescription)
	}
	if a.MinutesDuration != 30 {
		t.Errorf("Expected derived duration 30, got %d", a.MinutesDuration)
	}
	if a.PractitionerRequired != RequiredDefault {
		t.Errorf("Expected practitioner required to default, got %s", a.PractitionerRequired)
	}
}

func TestPractitionerRequired_RoundTrip(t *testing.T) {
	res := validResource()
	res.Participant[1].Required = "optional"

	a, err := FromFHIR(res)
	if err != nil {
		t.Fatalf("FromFHIR failed: %v", err)
	}
	if a.PractitionerRequired != "optional" {
		t.Errorf("Expected optional, got %s", a.PractitionerRequired)
	}

	out := ToFHIR(a)
	if out.Participant[1].Required != "optional" {
		t.Errorf("Expected required code to survive the round trip, got %s", out.Participant[1].Required)
	}
}

func TestFromFHIR_DefaultsToProposed(t *testing.T) {
	res := validResource()
	res.Status = ""

	a, err := FromFHIR(res)
	if err != nil {
		t.Fatalf("FromFHIR failed: %v", err)
	}
	if a.Status != StatusProposed {
		t.Errorf("Expected proposed, got %s", a.Status)
	}
}

func TestFromFHIR_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(res *fhir.Appointment)
		wantErr error
	}{
		{"wrong resource type", func(res *fhir.Appointment) { res.ResourceType = "Patient" }, ErrInvalidResourceType},
		{"bad status", func(res *fhir.Appointment) { res.Status = "scheduled" }, ErrInvalidStatus},
		{"missing start", func(res *fhir.Appointment) { res.Start = nil }, ErrMissingStart},
		{"missing end", func(res *fhir.Appointment) { res.End = nil }, ErrMissingEnd},
		{"end before start", func(res *fhir.Appointment) { res.End = res.Start }, ErrEndBeforeStart},
		{"no patient", func(res *fhir.Appointment) { res.Participant = res.Participant[1:] }, ErrMissingPatient},
		{"no practitioner", func(res *fhir.Appointment) { res.Participant = res.Participant[:1] }, ErrMissingPractitioner},
		{"bad participant status", func(res *fhir.Appointment) { res.Participant[0].Status = "maybe" }, ErrInvalidParticipant},
		{"bad required code", func(res *fhir.Appointment) { res.Participant[1].Required = "mandatory" }, ErrInvalidRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validResource()
			tt.mutate(res)

			_, err := FromFHIR(res)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestToFHIR_Participants(t *testing.T) {
	a := testAppointment(StatusBooked)
	a.CancellationReason = ""

	res := ToFHIR(a)

	if res.ResourceType != fhir.TypeAppointment {
		t.Errorf("Expected resourceType Appointment, got %s", res.ResourceType)
	}
	if len(res.Participant) != 2 {
		t.Fatalf("Expected 2 participants, got %d", len(res.Participant))
	}
	if res.Participant[0].Actor.Reference != "Patient/patient-1" {
		t.Errorf("Unexpected patient reference: %s", res.Participant[0].Actor.Reference)
	}
	if res.Participant[1].Actor.Reference != "Practitioner/practitioner-1" {
		t.Errorf("Unexpected practitioner reference: %s", res.Participant[1].Actor.Reference)
	}
	if res.CancelationReason != nil {
		t.Error("Expected no cancelation reason")
	}
}

func TestToFHIR_CancellationReason(t *testing.T) {
	a := testAppointment(StatusCancelled)
	a.CancellationReason = "patient request"

	res := ToFHIR(a)
	if res.CancelationReason == nil || res.CancelationReason.Text != "patient request" {
		t.Errorf("Expected cancelation reason, got %+v", res.CancelationReason)
	}
}
