package clinicalrecord

import (
	"testing"
	"time"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

func validCondition() *fhir.Condition {
	return &fhir.Condition{
		ResourceType: fhir.TypeCondition,
		ClinicalStatus: &fhir.CodeableConcept{
			Coding: []fhir.Coding{
				{System: clinicalStatusSystem, Code: StatusActive},
			},
		},
		Severity:      &fhir.CodeableConcept{Text: SeverityModerate},
		Code:          &fhir.CodeableConcept{Text: "Type 2 diabetes mellitus"},
		Subject:       fhir.Reference{Reference: "Patient/patient-1"},
		OnsetDateTime: "2024-03-12",
		Recorder:      &fhir.Reference{Reference: "Practitioner/practitioner-1"},
		Note: []fhir.Annotation{
			{Text: "Diagnosed after routine screening"},
			{Text: "Metformin started"},
		},
	}
}

func validObservation() *fhir.Observation {
	return &fhir.Observation{
		ResourceType: fhir.TypeObservation,
		Status:       StatusActive,
		Category:     []fhir.CodeableConcept{{Text: TypeObservation}},
		Code:         &fhir.CodeableConcept{Text: "Systolic blood pressure"},
		Subject:      fhir.Reference{Reference: "Patient/patient-1"},
		ValueQuantity: &fhir.Quantity{
			Value: 142,
			Unit:  "mmHg",
		},
		EffectiveDateTime: "2025-06-10",
		Performer: []fhir.Reference{
			{Reference: "Practitioner/practitioner-1"},
		},
	}
}

func TestFromConditionFHIR(t *testing.T) {
	rec, err := FromConditionFHIR(validCondition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.RecordType != TypeCondition {
		t.Errorf("expected record type %q, got %q", TypeCondition, rec.RecordType)
	}
	if rec.Status != StatusActive {
		t.Errorf("expected status %q, got %q", StatusActive, rec.Status)
	}
	if rec.Severity != SeverityModerate {
		t.Errorf("expected severity %q, got %q", SeverityModerate, rec.Severity)
	}
	if rec.Title != "Type 2 diabetes mellitus" {
		t.Errorf("unexpected title %q", rec.Title)
	}
	if rec.PatientID != "patient-1" {
		t.Errorf("expected patient ID patient-1, got %q", rec.PatientID)
	}
	if rec.PractitionerID != "practitioner-1" {
		t.Errorf("expected practitioner ID practitioner-1, got %q", rec.PractitionerID)
	}
	if rec.Description != "Diagnosed after routine screening" {
		t.Errorf("unexpected description %q", rec.Description)
	}
	if rec.Notes != "Metformin started" {
		t.Errorf("unexpected notes %q", rec.Notes)
	}
	if rec.OnsetDate == nil || rec.OnsetDate.Format(fhir.DateLayout) != "2024-03-12" {
		t.Errorf("unexpected onset date %v", rec.OnsetDate)
	}
}

func TestFromConditionFHIR_Validation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *fhir.Condition)
		wantErr error
	}{
		{
			name:    "wrong resource type",
			modify:  func(c *fhir.Condition) { c.ResourceType = "Patient" },
			wantErr: ErrInvalidResourceType,
		},
		{
			name:    "invalid status",
			modify:  func(c *fhir.Condition) { c.ClinicalStatus.Coding[0].Code = "gone" },
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "invalid severity",
			modify:  func(c *fhir.Condition) { c.Severity.Text = "terrible" },
			wantErr: ErrInvalidSeverity,
		},
		{
			name:    "missing title",
			modify:  func(c *fhir.Condition) { c.Code = nil },
			wantErr: ErrMissingTitle,
		},
		{
			name:    "missing subject",
			modify:  func(c *fhir.Condition) { c.Subject.Reference = "" },
			wantErr: ErrMissingSubject,
		},
		{
			name:    "malformed onset date",
			modify:  func(c *fhir.Condition) { c.OnsetDateTime = "12/03/2024" },
			wantErr: ErrInvalidOnsetDate,
		},
		{
			name: "resolution before onset",
			modify: func(c *fhir.Condition) {
				c.AbatementDateTime = "2024-01-01"
			},
			wantErr: ErrResolutionBeforeOnset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCondition()
			tt.modify(c)
			_, err := FromConditionFHIR(c)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromConditionFHIR_DefaultsStatus(t *testing.T) {
	c := validCondition()
	c.ClinicalStatus = nil

	rec, err := FromConditionFHIR(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != StatusActive {
		t.Errorf("expected default status %q, got %q", StatusActive, rec.Status)
	}
}

func TestFromObservationFHIR(t *testing.T) {
	rec, err := FromObservationFHIR(validObservation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.RecordType != TypeObservation {
		t.Errorf("expected record type %q, got %q", TypeObservation, rec.RecordType)
	}
	if rec.ValueQuantity != 142 {
		t.Errorf("expected value 142, got %v", rec.ValueQuantity)
	}
	if rec.ValueUnit != "mmHg" {
		t.Errorf("expected unit mmHg, got %q", rec.ValueUnit)
	}
	if rec.PractitionerID != "practitioner-1" {
		t.Errorf("expected practitioner ID practitioner-1, got %q", rec.PractitionerID)
	}
}

func TestFromObservationFHIR_RecordTypeFromCategory(t *testing.T) {
	o := validObservation()
	o.Category = []fhir.CodeableConcept{{Text: TypeAllergy}}

	rec, err := FromObservationFHIR(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RecordType != TypeAllergy {
		t.Errorf("expected record type %q, got %q", TypeAllergy, rec.RecordType)
	}
}

func TestFromObservationFHIR_RejectsUnknownCategory(t *testing.T) {
	o := validObservation()
	o.Category = []fhir.CodeableConcept{{Text: "imaging"}}

	_, err := FromObservationFHIR(o)
	if err != ErrInvalidRecordType {
		t.Errorf("expected ErrInvalidRecordType, got %v", err)
	}
}

func TestToFHIR_ConditionShape(t *testing.T) {
	onset := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	rec := &Record{
		ID:             "record-1",
		RecordType:     TypeCondition,
		Status:         StatusResolved,
		Severity:       SeverityMild,
		Title:          "Seasonal rhinitis",
		Description:    "Responds to antihistamines",
		OnsetDate:      &onset,
		PatientID:      "patient-1",
		PractitionerID: "practitioner-1",
		CreatedAt:      time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC),
	}

	resource := ToFHIR(rec)
	c, ok := resource.(*fhir.Condition)
	if !ok {
		t.Fatalf("expected Condition resource, got %T", resource)
	}

	if c.ClinicalStatus.Coding[0].Code != StatusResolved {
		t.Errorf("expected clinical status %q, got %q", StatusResolved, c.ClinicalStatus.Coding[0].Code)
	}
	if c.Code.Text != "Seasonal rhinitis" {
		t.Errorf("unexpected code text %q", c.Code.Text)
	}
	if c.Subject.Reference != "Patient/patient-1" {
		t.Errorf("unexpected subject %q", c.Subject.Reference)
	}
	if c.Recorder == nil || c.Recorder.Reference != "Practitioner/practitioner-1" {
		t.Errorf("unexpected recorder %v", c.Recorder)
	}
	if c.OnsetDateTime != "2024-03-12" {
		t.Errorf("unexpected onset %q", c.OnsetDateTime)
	}
}

func TestToFHIR_ObservationShape(t *testing.T) {
	rec := &Record{
		ID:            "record-2",
		RecordType:    TypeProcedure,
		Status:        StatusResolved,
		Title:         "Appendectomy",
		ValueQuantity: 0,
		PatientID:     "patient-1",
		CreatedAt:     time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
	}

	resource := ToFHIR(rec)
	o, ok := resource.(*fhir.Observation)
	if !ok {
		t.Fatalf("expected Observation resource, got %T", resource)
	}

	if len(o.Category) != 1 || o.Category[0].Text != TypeProcedure {
		t.Errorf("unexpected category %v", o.Category)
	}
	if o.ValueQuantity != nil {
		t.Errorf("expected no value quantity, got %v", o.ValueQuantity)
	}
}

func TestFHIRObservationRoundTrip(t *testing.T) {
	onset := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	original := &Record{
		ID:             "record-3",
		RecordType:     TypeAllergy,
		Status:         StatusActive,
		Severity:       SeveritySevere,
		Title:          "Penicillin allergy",
		Description:    "Anaphylaxis on first exposure",
		OnsetDate:      &onset,
		Notes:          "Carries epinephrine auto-injector",
		PatientID:      "patient-1",
		PractitionerID: "practitioner-1",
		CreatedAt:      time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}

	o, ok := ToFHIR(original).(*fhir.Observation)
	if !ok {
		t.Fatal("expected Observation resource")
	}

	restored, err := FromObservationFHIR(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.RecordType != original.RecordType {
		t.Errorf("record type mismatch: %q vs %q", restored.RecordType, original.RecordType)
	}
	if restored.Severity != original.Severity {
		t.Errorf("severity mismatch: %q vs %q", restored.Severity, original.Severity)
	}
	if restored.Notes != original.Notes {
		t.Errorf("notes mismatch: %q vs %q", restored.Notes, original.Notes)
	}
	if restored.Description != original.Description {
		t.Errorf("description mismatch: %q vs %q", restored.Description, original.Description)
	}
}
