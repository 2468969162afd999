package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/patient-management-service/internal/pagination"
)

const reportColumns = `id, report_type, format, title, status, filters,
	record_count, payload, error_message, requested_by, created_at, completed_at`

// Repository persists reports in PostgreSQL
type Repository struct {
	db *sql.DB
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a report repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanReport(scan func(dest ...interface{}) error) (*Report, error) {
	var r Report
	var filtersJSON []byte
	var payload []byte
	var errorMessage sql.NullString
	var completedAt sql.NullTime

	err := scan(
		&r.ID, &r.ReportType, &r.Format, &r.Title, &r.Status, &filtersJSON,
		&r.RecordCount, &payload, &errorMessage, &r.RequestedBy, &r.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(filtersJSON) > 0 {
		if err := json.Unmarshal(filtersJSON, &r.Filters); err != nil {
			return nil, fmt.Errorf("failed to decode report filters: %w", err)
		}
	}
	r.Payload = payload
	r.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

// Create inserts a new report row
func (r *Repository) Create(ctx context.Context, rep *Report) (*Report, error) {
	rep.ID = uuid.New().String()
	rep.CreatedAt = time.Now().UTC()

	filtersJSON, err := json.Marshal(rep.Filters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report filters: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO reports (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s`, reportColumns, reportColumns)

	row := r.db.QueryRowContext(ctx, query,
		rep.ID, rep.ReportType, rep.Format, rep.Title, rep.Status, filtersJSON,
		rep.RecordCount, rep.Payload, nullIfEmpty(rep.ErrorMessage),
		rep.RequestedBy, rep.CreatedAt, rep.CompletedAt,
	)
	created, err := scanReport(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return created, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Get fetches a single report, payload included
func (r *Repository) Get(ctx context.Context, id string) (*Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

// List returns report rows matching the filters, payloads excluded
func (r *Repository) List(ctx context.Context, f Filters, params pagination.Params) ([]*Report, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if f.RequestedBy != "" {
		where += fmt.Sprintf(" AND requested_by = $%d", argIndex)
		args = append(args, f.RequestedBy)
		argIndex++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.ReportType != "" {
		where += fmt.Sprintf(" AND report_type = $%d", argIndex)
		args = append(args, f.ReportType)
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, report_type, format, title, status, filters,
		record_count, NULL, error_message, requested_by, created_at, completed_at
		FROM reports %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIndex, argIndex+1)
	args = append(args, params.Limit, params.CalculateOffset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []*Report{}
	for rows.Next() {
		rep, err := scanReport(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, total, rows.Err()
}

// Delete removes a report
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrReportNotFound
	}
	return nil
}

// DeleteCompletedBefore purges completed reports finished before the cutoff.
// Returns the number of rows removed.
func (r *Repository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reports WHERE status = $1 AND completed_at < $2`,
		StatusCompleted, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge reports: %w", err)
	}
	return result.RowsAffected()
}
