package clinicalrecord

import (
	"strings"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

// clinicalStatusSystem is the FHIR value set backing the clinical status codes
const clinicalStatusSystem = "http://terminology.hl7.org/CodeSystem/condition-clinical"

// ToFHIR renders the record as a Condition or an Observation resource.
// Records typed "condition" become Condition resources; every other type
// becomes an Observation carrying the record type as its category.
func ToFHIR(r *Record) interface{} {
	if r.RecordType == TypeCondition {
		return toCondition(r)
	}
	return toObservation(r)
}

func toCondition(r *Record) *fhir.Condition {
	c := &fhir.Condition{
		ResourceType: fhir.TypeCondition,
		ID:           r.ID,
		ClinicalStatus: &fhir.CodeableConcept{
			Text: r.Status,
			Coding: []fhir.Coding{
				{System: clinicalStatusSystem, Code: r.Status},
			},
		},
		Code: &fhir.CodeableConcept{Text: r.Title},
		Subject: fhir.Reference{
			Reference: "Patient/" + r.PatientID,
		},
		OnsetDateTime:     fhir.FormatDate(r.OnsetDate),
		AbatementDateTime: fhir.FormatDate(r.ResolutionDate),
	}

	if r.Severity != "" {
		c.Severity = &fhir.CodeableConcept{Text: r.Severity}
	}
	if r.PractitionerID != "" {
		c.Recorder = &fhir.Reference{Reference: "Practitioner/" + r.PractitionerID}
	}
	if r.Description != "" {
		c.Note = append(c.Note, fhir.Annotation{Text: r.Description})
	}
	if r.Notes != "" {
		c.Note = append(c.Note, fhir.Annotation{Text: r.Notes})
	}

	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		c.RecordedDate = &created
		c.CreatedAt = &created
	}
	c.UpdatedAt = r.UpdatedAt
	return c
}

func toObservation(r *Record) *fhir.Observation {
	o := &fhir.Observation{
		ResourceType: fhir.TypeObservation,
		ID:           r.ID,
		Status:       r.Status,
		Category: []fhir.CodeableConcept{
			{Text: r.RecordType},
		},
		Code: &fhir.CodeableConcept{Text: r.Title},
		Subject: fhir.Reference{
			Reference: "Patient/" + r.PatientID,
		},
		EffectiveDateTime: fhir.FormatDate(r.OnsetDate),
		ValueString:       r.Description,
	}

	if r.ValueQuantity != 0 || r.ValueUnit != "" {
		o.ValueQuantity = &fhir.Quantity{
			Value: r.ValueQuantity,
			Unit:  r.ValueUnit,
		}
	}
	if r.Severity != "" {
		o.Note = append(o.Note, fhir.Annotation{Text: "severity: " + r.Severity})
	}
	if r.Notes != "" {
		o.Note = append(o.Note, fhir.Annotation{Text: r.Notes})
	}
	if r.PractitionerID != "" {
		o.Performer = []fhir.Reference{
			{Reference: "Practitioner/" + r.PractitionerID},
		}
	}

	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		o.CreatedAt = &created
	}
	o.UpdatedAt = r.UpdatedAt
	return o
}

// FromConditionFHIR converts a Condition resource into a flat record,
// validating required fields and value sets along the way.
func FromConditionFHIR(c *fhir.Condition) (*Record, error) {
	if c.ResourceType != fhir.TypeCondition {
		return nil, ErrInvalidResourceType
	}

	r := &Record{
		ID:         c.ID,
		RecordType: TypeCondition,
		Status:     conceptCode(c.ClinicalStatus),
	}

	if c.Code != nil {
		r.Title = c.Code.Text
	}
	if c.Severity != nil {
		r.Severity = c.Severity.Text
	}
	r.PatientID = referenceID(c.Subject.Reference, "Patient/")
	if c.Recorder != nil {
		r.PractitionerID = referenceID(c.Recorder.Reference, "Practitioner/")
	}
	if len(c.Note) > 0 {
		r.Description = c.Note[0].Text
	}
	if len(c.Note) > 1 {
		r.Notes = c.Note[1].Text
	}

	onset, err := fhir.ParseDate(c.OnsetDateTime)
	if err != nil {
		return nil, ErrInvalidOnsetDate
	}
	r.OnsetDate = onset

	resolution, err := fhir.ParseDate(c.AbatementDateTime)
	if err != nil {
		return nil, ErrInvalidResolutionDate
	}
	r.ResolutionDate = resolution

	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// FromObservationFHIR converts an Observation resource into a flat record.
// The record type comes from the first category text and defaults to
// "observation" when absent.
func FromObservationFHIR(o *fhir.Observation) (*Record, error) {
	if o.ResourceType != fhir.TypeObservation {
		return nil, ErrInvalidResourceType
	}

	r := &Record{
		ID:         o.ID,
		RecordType: TypeObservation,
		Status:     o.Status,
	}

	if len(o.Category) > 0 && o.Category[0].Text != "" {
		r.RecordType = o.Category[0].Text
	}
	if o.Code != nil {
		r.Title = o.Code.Text
	}
	r.PatientID = referenceID(o.Subject.Reference, "Patient/")
	if len(o.Performer) > 0 {
		r.PractitionerID = referenceID(o.Performer[0].Reference, "Practitioner/")
	}
	if o.ValueQuantity != nil {
		r.ValueQuantity = o.ValueQuantity.Value
		r.ValueUnit = o.ValueQuantity.Unit
	}
	r.Description = o.ValueString

	for _, note := range o.Note {
		if strings.HasPrefix(note.Text, "severity: ") {
			r.Severity = strings.TrimPrefix(note.Text, "severity: ")
			continue
		}
		if r.Notes == "" {
			r.Notes = note.Text
		}
	}

	onset, err := fhir.ParseDate(o.EffectiveDateTime)
	if err != nil {
		return nil, ErrInvalidOnsetDate
	}
	r.OnsetDate = onset

	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func validate(r *Record) error {
	if !ValidRecordTypes[r.RecordType] {
		return ErrInvalidRecordType
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	if !ValidStatuses[r.Status] {
		return ErrInvalidStatus
	}
	if r.Severity != "" && !validSeverities[r.Severity] {
		return ErrInvalidSeverity
	}
	if r.Title == "" {
		return ErrMissingTitle
	}
	if r.PatientID == "" {
		return ErrMissingSubject
	}
	if r.ValueQuantity < 0 {
		return ErrNegativeValueQuantity
	}
	if r.OnsetDate != nil && r.ResolutionDate != nil && r.ResolutionDate.Before(*r.OnsetDate) {
		return ErrResolutionBeforeOnset
	}
	return nil
}

func conceptCode(c *fhir.CodeableConcept) string {
	if c == nil {
		return ""
	}
	for _, coding := range c.Coding {
		if coding.Code != "" {
			return coding.Code
		}
	}
	return c.Text
}

func referenceID(ref, prefix string) string {
	if strings.HasPrefix(ref, prefix) {
		return strings.TrimPrefix(ref, prefix)
	}
	return ""
}
