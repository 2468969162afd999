package clinicalrecord

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

const recordColumns = `id, record_type, status, severity, title, description,
	value_quantity, value_unit, onset_date, resolution_date, notes,
	patient_id, practitioner_id, created_at, updated_at`

// Repository persists clinical records in PostgreSQL
type Repository struct {
	db *sql.DB
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a clinical record repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanRecord(scan func(dest ...interface{}) error) (*Record, error) {
	var r Record
	var severity, description, valueUnit, notes, practitionerID sql.NullString
	var valueQuantity sql.NullFloat64
	var onsetDate, resolutionDate, updatedAt sql.NullTime

	err := scan(
		&r.ID, &r.RecordType, &r.Status, &severity, &r.Title, &description,
		&valueQuantity, &valueUnit, &onsetDate, &resolutionDate, &notes,
		&r.PatientID, &practitionerID, &r.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Severity = severity.String
	r.Description = description.String
	r.ValueQuantity = valueQuantity.Float64
	r.ValueUnit = valueUnit.String
	r.Notes = notes.String
	r.PractitionerID = practitionerID.String
	if onsetDate.Valid {
		t := onsetDate.Time
		r.OnsetDate = &t
	}
	if resolutionDate.Valid {
		t := resolutionDate.Time
		r.ResolutionDate = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		r.UpdatedAt = &t
	}
	return &r, nil
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

// Create inserts a new clinical record
func (r *Repository) Create(ctx context.Context, rec *Record) (*Record, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO clinical_records (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`, recordColumns, recordColumns)

	row := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.RecordType, rec.Status, nullIfEmpty(rec.Severity),
		rec.Title, nullIfEmpty(rec.Description),
		nullIfZero(rec.ValueQuantity), nullIfEmpty(rec.ValueUnit),
		rec.OnsetDate, rec.ResolutionDate, nullIfEmpty(rec.Notes),
		rec.PatientID, nullIfEmpty(rec.PractitionerID),
		rec.CreatedAt, nil,
	)
	return scanRecord(row.Scan)
}

// Get fetches a single clinical record by ID
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinical_records WHERE id = $1`, recordColumns)
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinical record: %w", err)
	}
	return rec, nil
}

// List returns clinical records matching the filters, newest first
func (r *Repository) List(ctx context.Context, f Filters, params pagination.Params) ([]*Record, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if f.PatientID != "" {
		where += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, f.PatientID)
		argIndex++
	}
	if f.RecordType != "" {
		where += fmt.Sprintf(" AND record_type = $%d", argIndex)
		args = append(args, f.RecordType)
		argIndex++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clinical_records %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clinical records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM clinical_records %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		recordColumns, where, argIndex, argIndex+1)
	args = append(args, params.Limit, params.CalculateOffset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clinical records: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan clinical record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// Update replaces every mutable field of a clinical record
func (r *Repository) Update(ctx context.Context, rec *Record) (*Record, error) {
	query := fmt.Sprintf(`UPDATE clinical_records SET
		record_type = $2, status = $3, severity = $4, title = $5, description = $6,
		value_quantity = $7, value_unit = $8, onset_date = $9, resolution_date = $10,
		notes = $11, patient_id = $12, practitioner_id = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, recordColumns)

	row := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.RecordType, rec.Status, nullIfEmpty(rec.Severity),
		rec.Title, nullIfEmpty(rec.Description),
		nullIfZero(rec.ValueQuantity), nullIfEmpty(rec.ValueUnit),
		rec.OnsetDate, rec.ResolutionDate, nullIfEmpty(rec.Notes),
		rec.PatientID, nullIfEmpty(rec.PractitionerID),
	)
	updated, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update clinical record: %w", err)
	}
	return updated, nil
}

// Delete removes a clinical record
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clinical record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}
