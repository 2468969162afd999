package prescription

import (
	"strings"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

// Local coding systems used to round-trip form and strength through the
// medication concept.
const (
	formSystem     = "http://clinicore.io/fhir/medication-form"
	strengthSystem = "http://clinicore.io/fhir/medication-strength"
)

// ToFHIR converts the stored prescription into its FHIR resource shape
func ToFHIR(p *Prescription) *fhir.MedicationRequest {
	authoredOn := p.AuthoredOn

	medication := &fhir.CodeableConcept{Text: p.MedicationName}
	if p.MedicationCode != "" {
		medication.Coding = append(medication.Coding, fhir.Coding{Code: p.MedicationCode, Display: p.MedicationName})
	}
	if p.MedicationForm != "" {
		medication.Coding = append(medication.Coding, fhir.Coding{System: formSystem, Code: p.MedicationForm})
	}
	if p.MedicationStrength != "" {
		medication.Coding = append(medication.Coding, fhir.Coding{System: strengthSystem, Code: p.MedicationStrength})
	}

	dosage := fhir.Dosage{Text: p.DosageText}
	if p.DosageFrequency != "" {
		dosage.Timing = &fhir.DosageTiming{Code: &fhir.CodeableConcept{Text: p.DosageFrequency}}
	}
	if p.DosageRoute != "" {
		dosage.Route = &fhir.CodeableConcept{Text: p.DosageRoute}
	}
	if p.DoseQuantity > 0 {
		dosage.DoseAndRate = []fhir.DoseAndRate{
			{DoseQuantity: &fhir.Quantity{Value: p.DoseQuantity, Unit: p.DoseUnit}},
		}
	}

	dispense := &fhir.DispenseRequest{NumberOfRepeatsAllowed: p.RefillsAllowed}
	if p.ValidityStart != nil || p.ValidityEnd != nil {
		dispense.ValidityPeriod = &fhir.DatePeriod{
			Start: fhir.FormatDate(p.ValidityStart),
			End:   fhir.FormatDate(p.ValidityEnd),
		}
	}
	if p.DispenseQuantity > 0 {
		dispense.Quantity = &fhir.Quantity{Value: p.DispenseQuantity, Unit: p.DispenseUnit}
	}
	if p.DispenseIntervalDays > 0 {
		dispense.DispenseInterval = &fhir.Quantity{Value: float64(p.DispenseIntervalDays), Unit: "d"}
	}

	res := &fhir.MedicationRequest{
		ResourceType:              fhir.TypeMedicationRequest,
		ID:                        p.ID,
		Status:                    p.Status,
		Intent:                    p.Intent,
		Priority:                  p.Priority,
		MedicationCodeableConcept: medication,
		Subject:                   fhir.Reference{Reference: "Patient/" + p.PatientID},
		Requester:                 &fhir.Reference{Reference: "Practitioner/" + p.PrescriberID},
		AuthoredOn:                &authoredOn,
		DosageInstruction:         []fhir.Dosage{dosage},
		DispenseRequest:           dispense,
		CreatedAt:                 &p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}

	if p.Reason != "" {
		res.ReasonCode = []fhir.CodeableConcept{{Text: p.Reason}}
	}
	if p.Notes != "" {
		res.Note = []fhir.Annotation{{Text: p.Notes}}
	}

	return res
}

// FromFHIR validates an incoming FHIR MedicationRequest and flattens it for storage
func FromFHIR(res *fhir.MedicationRequest) (*Prescription, error) {
	if res.ResourceType != fhir.TypeMedicationRequest {
		return nil, ErrInvalidResourceType
	}

	status := res.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatuses[status] {
		return nil, ErrInvalidStatus
	}

	intent := res.Intent
	if intent == "" {
		intent = IntentOrder
	}
	if !validIntents[intent] {
		return nil, ErrInvalidIntent
	}

	priority := res.Priority
	if priority == "" {
		priority = PriorityRoutine
	}
	if !validPriorities[priority] {
		return nil, ErrInvalidPriority
	}

	if res.MedicationCodeableConcept == nil {
		return nil, ErrMissingMedication
	}
	if len(res.DosageInstruction) == 0 || res.DosageInstruction[0].Text == "" {
		return nil, ErrMissingDosage
	}
	if !strings.HasPrefix(res.Subject.Reference, "Patient/") {
		return nil, ErrMissingSubject
	}
	if res.Requester == nil || !strings.HasPrefix(res.Requester.Reference, "Practitioner/") {
		return nil, ErrMissingRequester
	}

	p := &Prescription{
		ID:           res.ID,
		Status:       status,
		Intent:       intent,
		Priority:     priority,
		DosageText:   res.DosageInstruction[0].Text,
		PatientID:    strings.TrimPrefix(res.Subject.Reference, "Patient/"),
		PrescriberID: strings.TrimPrefix(res.Requester.Reference, "Practitioner/"),
	}

	medication := res.MedicationCodeableConcept
	p.MedicationName = medication.Text
	for _, coding := range medication.Coding {
		switch coding.System {
		case formSystem:
			p.MedicationForm = coding.Code
		case strengthSystem:
			p.MedicationStrength = coding.Code
		default:
			p.MedicationCode = coding.Code
			if p.MedicationName == "" {
				p.MedicationName = coding.Display
			}
		}
	}
	if p.MedicationName == "" {
		return nil, ErrMissingMedication
	}

	dosage := res.DosageInstruction[0]
	if dosage.Timing != nil && dosage.Timing.Code != nil {
		p.DosageFrequency = dosage.Timing.Code.Text
	}
	if dosage.Route != nil {
		p.DosageRoute = dosage.Route.Text
	}
	if len(dosage.DoseAndRate) > 0 && dosage.DoseAndRate[0].DoseQuantity != nil {
		p.DoseQuantity = dosage.DoseAndRate[0].DoseQuantity.Value
		p.DoseUnit = dosage.DoseAndRate[0].DoseQuantity.Unit
	}

	if res.DispenseRequest != nil {
		dispense := res.DispenseRequest
		if dispense.NumberOfRepeatsAllowed < 0 {
			return nil, ErrNegativeRefills
		}
		p.RefillsAllowed = dispense.NumberOfRepeatsAllowed

		if dispense.ValidityPeriod != nil {
			start, err := fhir.ParseDate(dispense.ValidityPeriod.Start)
			if err != nil && dispense.ValidityPeriod.Start != "" {
				return nil, ErrInvalidValidity
			}
			end, err := fhir.ParseDate(dispense.ValidityPeriod.End)
			if err != nil && dispense.ValidityPeriod.End != "" {
				return nil, ErrInvalidValidity
			}
			if start != nil && end != nil && end.Before(*start) {
				return nil, ErrInvalidValidity
			}
			p.ValidityStart = start
			p.ValidityEnd = end
		}
		if dispense.Quantity != nil {
			p.DispenseQuantity = dispense.Quantity.Value
			p.DispenseUnit = dispense.Quantity.Unit
		}
		if dispense.DispenseInterval != nil {
			p.DispenseIntervalDays = int(dispense.DispenseInterval.Value)
		}
	}

	if res.AuthoredOn != nil {
		p.AuthoredOn = *res.AuthoredOn
	}
	if len(res.ReasonCode) > 0 {
		p.Reason = res.ReasonCode[0].Text
	}
	if len(res.Note) > 0 {
		p.Notes = res.Note[0].Text
	}

	return p, nil
}
