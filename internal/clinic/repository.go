package clinic

import (
	"context"
	"database/sql"
	"fmt"
)

const settingsColumns = `clinic_name, address, phone, email,
	primary_color, secondary_color, report_footer, include_logo, updated_at`

// Repository persists clinic settings in PostgreSQL
type Repository struct {
	db *sql.DB
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a clinic settings repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get fetches the singleton settings row
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic_settings WHERE id = 1`, settingsColumns)

	var s Settings
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.ClinicName, &s.Address, &s.Phone, &s.Email,
		&s.PrimaryColor, &s.SecondaryColor, &s.ReportFooter, &s.IncludeLogo,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic settings: %w", err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		s.UpdatedAt = &t
	}
	return &s, nil
}

// Save replaces the singleton settings row
func (r *Repository) Save(ctx context.Context, s *Settings) (*Settings, error) {
	query := fmt.Sprintf(`UPDATE clinic_settings SET
		clinic_name = $1, address = $2, phone = $3, email = $4,
		primary_color = $5, secondary_color = $6, report_footer = $7,
		include_logo = $8, updated_at = NOW()
		WHERE id = 1
		RETURNING %s`, settingsColumns)

	var saved Settings
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		s.ClinicName, s.Address, s.Phone, s.Email,
		s.PrimaryColor, s.SecondaryColor, s.ReportFooter, s.IncludeLogo,
	).Scan(
		&saved.ClinicName, &saved.Address, &saved.Phone, &saved.Email,
		&saved.PrimaryColor, &saved.SecondaryColor, &saved.ReportFooter, &saved.IncludeLogo,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save clinic settings: %w", err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		saved.UpdatedAt = &t
	}
	return &saved, nil
}
