package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const appointmentColumns = `id, status, cancellation_reason, service_category, service_type, specialty,
	appointment_type, reason_code, reason_description, priority, description,
	start_time, end_time, minutes_duration, comment, patient_instruction,
	patient_id, patient_status, practitioner_id, practitioner_status, practitioner_required,
	created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanAppointment(scan func(dest ...interface{}) error) (*Appointment, error) {
	var a Appointment
	var cancellationReason, serviceCategory, serviceType, specialty sql.NullString
	var appointmentType, reasonCode, reasonDescription, description sql.NullString
	var comment, patientInstruction sql.NullString
	var updatedAt sql.NullTime

	err := scan(
		&a.ID,
		&a.Status,
		&cancellationReason,
		&serviceCategory,
		&serviceType,
		&specialty,
		&appointmentType,
		&reasonCode,
		&reasonDescription,
		&a.Priority,
		&description,
		&a.Start,
		&a.End,
		&a.MinutesDuration,
		&comment,
		&patientInstruction,
		&a.PatientID,
		&a.PatientStatus,
		&a.PractitionerID,
		&a.PractitionerStatus,
		&a.PractitionerRequired,
		&a.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CancellationReason = cancellationReason.String
	a.ServiceCategory = serviceCategory.String
	a.ServiceType = serviceType.String
	a.Specialty = specialty.String
	a.AppointmentType = appointmentType.String
	a.ReasonCode = reasonCode.String
	a.ReasonDescription = reasonDescription.String
	a.Description = description.String
	a.Comment = comment.String
	a.PatientInstruction = patientInstruction.String
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}

	return &a, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (r *Repository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO appointments (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NULL)
		RETURNING %s
	`, appointmentColumns, appointmentColumns)

	created, err := scanAppointment(r.db.QueryRowContext(ctx, query,
		a.ID,
		a.Status,
		nullIfEmpty(a.CancellationReason),
		nullIfEmpty(a.ServiceCategory),
		nullIfEmpty(a.ServiceType),
		nullIfEmpty(a.Specialty),
		nullIfEmpty(a.AppointmentType),
		nullIfEmpty(a.ReasonCode),
		nullIfEmpty(a.ReasonDescription),
		a.Priority,
		nullIfEmpty(a.Description),
		a.Start,
		a.End,
		a.MinutesDuration,
		nullIfEmpty(a.Comment),
		nullIfEmpty(a.PatientInstruction),
		a.PatientID,
		a.PatientStatus,
		a.PractitionerID,
		a.PractitionerStatus,
		a.PractitionerRequired,
		a.CreatedAt,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment: %w", err)
	}

	return a, nil
}

func (r *Repository) List(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if len(f.Statuses) > 0 {
		where += fmt.Sprintf(" AND status = ANY($%d)", argIndex)
		args = append(args, pq.Array(f.Statuses))
		argIndex++
	}
	if f.PatientID != "" {
		where += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, f.PatientID)
		argIndex++
	}
	if f.PractitionerID != "" {
		where += fmt.Sprintf(" AND practitioner_id = $%d", argIndex)
		args = append(args, f.PractitionerID)
		argIndex++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND start_time >= $%d", argIndex)
		args = append(args, *f.From)
		argIndex++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND start_time < $%d", argIndex)
		args = append(args, *f.To)
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM appointments WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE %s
		ORDER BY start_time
		LIMIT $%d OFFSET $%d
	`, appointmentColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, total, nil
}

// Update performs a full replace of the stored row, keeping created_at
func (r *Repository) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = $1, cancellation_reason = $2, service_category = $3, service_type = $4,
			specialty = $5, appointment_type = $6, reason_code = $7, reason_description = $8,
			priority = $9, description = $10, start_time = $11, end_time = $12, minutes_duration = $13,
			comment = $14, patient_instruction = $15, patient_id = $16, patient_status = $17,
			practitioner_id = $18, practitioner_status = $19, practitioner_required = $20, updated_at = $21
		WHERE id = $22
		RETURNING %s
	`, appointmentColumns)

	updated, err := scanAppointment(r.db.QueryRowContext(ctx, query,
		a.Status,
		nullIfEmpty(a.CancellationReason),
		nullIfEmpty(a.ServiceCategory),
		nullIfEmpty(a.ServiceType),
		nullIfEmpty(a.Specialty),
		nullIfEmpty(a.AppointmentType),
		nullIfEmpty(a.ReasonCode),
		nullIfEmpty(a.ReasonDescription),
		a.Priority,
		nullIfEmpty(a.Description),
		a.Start,
		a.End,
		a.MinutesDuration,
		nullIfEmpty(a.Comment),
		nullIfEmpty(a.PatientInstruction),
		a.PatientID,
		a.PatientStatus,
		a.PractitionerID,
		a.PractitionerStatus,
		a.PractitionerRequired,
		time.Now(),
		a.ID,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return updated, nil
}

// UpdateStatus applies a workflow transition. Fields left empty on the
// update keep their stored values.
func (r *Repository) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = $1,
			cancellation_reason = COALESCE($2, cancellation_reason),
			patient_status = COALESCE($3, patient_status),
			practitioner_status = COALESCE($4, practitioner_status),
			updated_at = $5
		WHERE id = $6
		RETURNING %s
	`, appointmentColumns)

	updated, err := scanAppointment(r.db.QueryRowContext(ctx, query,
		upd.Status,
		nullIfEmpty(upd.CancellationReason),
		nullIfEmpty(upd.PatientStatus),
		nullIfEmpty(upd.PractitionerStatus),
		time.Now(),
		id,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// FindConflicts returns IDs of slot-holding appointments for the practitioner
// that overlap the given window. An appointment conflicts when it starts
// before the window ends and ends after the window starts.
func (r *Repository) FindConflicts(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
	query := `
		SELECT id FROM appointments
		WHERE practitioner_id = $1
		  AND start_time < $3
		  AND end_time > $2
		  AND status = ANY($4)
		  AND ($5 = '' OR id::text <> $5)
		ORDER BY start_time
	`

	rows, err := r.db.QueryContext(ctx, query, practitionerID, start, end, pq.Array(activeStatuses), excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicting appointments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conflict rows: %w", err)
	}

	return ids, nil
}

func (r *Repository) CountByStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if from != nil {
		where += fmt.Sprintf(" AND start_time >= $%d", argIndex)
		args = append(args, *from)
		argIndex++
	}
	if to != nil {
		where += fmt.Sprintf(" AND start_time < $%d", argIndex)
		args = append(args, *to)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM appointments WHERE %s GROUP BY status`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
