package prescription

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const prescriptionColumns = `id, status, intent, priority, medication_name, medication_code,
	medication_form, medication_strength, dosage_text, dosage_route, dosage_frequency,
	dose_quantity, dose_unit, dispense_quantity, dispense_unit, refills_allowed,
	dispense_interval_days, authored_on, validity_start, validity_end, reason, notes,
	patient_id, prescriber_id, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanPrescription(scan func(dest ...interface{}) error) (*Prescription, error) {
	var p Prescription
	var medicationCode, medicationForm, medicationStrength sql.NullString
	var dosageRoute, dosageFrequency, doseUnit, dispenseUnit, reason, notes sql.NullString
	var doseQuantity, dispenseQuantity sql.NullFloat64
	var validityStart, validityEnd, updatedAt sql.NullTime

	err := scan(
		&p.ID,
		&p.Status,
		&p.Intent,
		&p.Priority,
		&p.MedicationName,
		&medicationCode,
		&medicationForm,
		&medicationStrength,
		&p.DosageText,
		&dosageRoute,
		&dosageFrequency,
		&doseQuantity,
		&doseUnit,
		&dispenseQuantity,
		&dispenseUnit,
		&p.RefillsAllowed,
		&p.DispenseIntervalDays,
		&p.AuthoredOn,
		&validityStart,
		&validityEnd,
		&reason,
		&notes,
		&p.PatientID,
		&p.PrescriberID,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.MedicationCode = medicationCode.String
	p.MedicationForm = medicationForm.String
	p.MedicationStrength = medicationStrength.String
	p.DosageRoute = dosageRoute.String
	p.DosageFrequency = dosageFrequency.String
	p.DoseUnit = doseUnit.String
	p.DispenseUnit = dispenseUnit.String
	p.Reason = reason.String
	p.Notes = notes.String
	p.DoseQuantity = doseQuantity.Float64
	p.DispenseQuantity = dispenseQuantity.Float64
	if validityStart.Valid {
		p.ValidityStart = &validityStart.Time
	}
	if validityEnd.Valid {
		p.ValidityEnd = &validityEnd.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}

	return &p, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(f float64) interface{} {
	if f == 0 {
		return nil
	}
	return f
}

func (r *Repository) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO prescriptions (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, NULL)
		RETURNING %s
	`, prescriptionColumns, prescriptionColumns)

	created, err := scanPrescription(r.db.QueryRowContext(ctx, query,
		p.ID,
		p.Status,
		p.Intent,
		p.Priority,
		p.MedicationName,
		nullIfEmpty(p.MedicationCode),
		nullIfEmpty(p.MedicationForm),
		nullIfEmpty(p.MedicationStrength),
		p.DosageText,
		nullIfEmpty(p.DosageRoute),
		nullIfEmpty(p.DosageFrequency),
		nullIfZero(p.DoseQuantity),
		nullIfEmpty(p.DoseUnit),
		nullIfZero(p.DispenseQuantity),
		nullIfEmpty(p.DispenseUnit),
		p.RefillsAllowed,
		p.DispenseIntervalDays,
		p.AuthoredOn,
		p.ValidityStart,
		p.ValidityEnd,
		nullIfEmpty(p.Reason),
		nullIfEmpty(p.Notes),
		p.PatientID,
		p.PrescriberID,
		p.CreatedAt,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to insert prescription: %w", err)
	}

	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Prescription, error) {
	query := fmt.Sprintf(`SELECT %s FROM prescriptions WHERE id = $1`, prescriptionColumns)

	p, err := scanPrescription(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query prescription: %w", err)
	}

	return p, nil
}

func (r *Repository) List(ctx context.Context, f Filters, limit, offset int) ([]Prescription, int, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.PatientID != "" {
		where += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, f.PatientID)
		argIndex++
	}
	if f.PrescriberID != "" {
		where += fmt.Sprintf(" AND prescriber_id = $%d", argIndex)
		args = append(args, f.PrescriberID)
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM prescriptions WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM prescriptions
		WHERE %s
		ORDER BY authored_on DESC
		LIMIT $%d OFFSET $%d
	`, prescriptionColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []Prescription
	for rows.Next() {
		p, err := scanPrescription(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating prescriptions: %w", err)
	}

	return prescriptions, total, nil
}

// Update performs a full replace of the stored row, keeping created_at and authored_on
func (r *Repository) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	query := fmt.Sprintf(`
		UPDATE prescriptions
		SET status = $1, intent = $2, priority = $3, medication_name = $4, medication_code = $5,
			medication_form = $6, medication_strength = $7, dosage_text = $8, dosage_route = $9,
			dosage_frequency = $10, dose_quantity = $11, dose_unit = $12, dispense_quantity = $13,
			dispense_unit = $14, refills_allowed = $15, dispense_interval_days = $16,
			validity_start = $17, validity_end = $18, reason = $19, notes = $20,
			patient_id = $21, prescriber_id = $22, updated_at = $23
		WHERE id = $24
		RETURNING %s
	`, prescriptionColumns)

	updated, err := scanPrescription(r.db.QueryRowContext(ctx, query,
		p.Status,
		p.Intent,
		p.Priority,
		p.MedicationName,
		nullIfEmpty(p.MedicationCode),
		nullIfEmpty(p.MedicationForm),
		nullIfEmpty(p.MedicationStrength),
		p.DosageText,
		nullIfEmpty(p.DosageRoute),
		nullIfEmpty(p.DosageFrequency),
		nullIfZero(p.DoseQuantity),
		nullIfEmpty(p.DoseUnit),
		nullIfZero(p.DispenseQuantity),
		nullIfEmpty(p.DispenseUnit),
		p.RefillsAllowed,
		p.DispenseIntervalDays,
		p.ValidityStart,
		p.ValidityEnd,
		nullIfEmpty(p.Reason),
		nullIfEmpty(p.Notes),
		p.PatientID,
		p.PrescriberID,
		time.Now(),
		p.ID,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPrescriptionNotFound
	}

	return nil
}
