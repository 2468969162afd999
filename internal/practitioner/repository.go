package practitioner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const practitionerColumns = `id, prefix, family_name, given_name, middle_name, gender, birth_date,
	npi, license_number, specialization, qualification, years_of_experience,
	address_line, city, state, postal_code, country, email, phone, active, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanPractitioner(scan func(dest ...interface{}) error) (*Practitioner, error) {
	var p Practitioner
	var prefix, middleName, qualification sql.NullString
	var addressLine, city, state, postalCode, country, email, phone sql.NullString
	var birthDate, updatedAt sql.NullTime

	err := scan(
		&p.ID,
		&prefix,
		&p.FamilyName,
		&p.GivenName,
		&middleName,
		&p.Gender,
		&birthDate,
		&p.NPI,
		&p.LicenseNumber,
		&p.Specialization,
		&qualification,
		&p.YearsOfExperience,
		&addressLine,
		&city,
		&state,
		&postalCode,
		&country,
		&email,
		&phone,
		&p.Active,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Prefix = prefix.String
	p.MiddleName = middleName.String
	p.Qualification = qualification.String
	p.AddressLine = addressLine.String
	p.City = city.String
	p.State = state.String
	p.PostalCode = postalCode.String
	p.Country = country.String
	p.Email = email.String
	p.Phone = phone.String
	if birthDate.Valid {
		p.BirthDate = &birthDate.Time
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

func (r *Repository) Create(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO practitioners (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NULL)
		RETURNING %s
	`, practitionerColumns, practitionerColumns)

	created, err := scanPractitioner(r.db.QueryRowContext(ctx, query,
		p.ID,
		nullIfEmpty(p.Prefix),
		p.FamilyName,
		p.GivenName,
		nullIfEmpty(p.MiddleName),
		p.Gender,
		p.BirthDate,
		p.NPI,
		p.LicenseNumber,
		p.Specialization,
		nullIfEmpty(p.Qualification),
		p.YearsOfExperience,
		nullIfEmpty(p.AddressLine),
		nullIfEmpty(p.City),
		nullIfEmpty(p.State),
		nullIfEmpty(p.PostalCode),
		nullIfEmpty(p.Country),
		nullIfEmpty(p.Email),
		nullIfEmpty(p.Phone),
		p.Active,
		p.CreatedAt,
	).Scan)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrNPITaken
		}
		return nil, fmt.Errorf("failed to insert practitioner: %w", err)
	}

	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Practitioner, error) {
	query := fmt.Sprintf(`SELECT %s FROM practitioners WHERE id = $1`, practitionerColumns)

	p, err := scanPractitioner(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPractitionerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query practitioner: %w", err)
	}

	return p, nil
}

func (r *Repository) List(ctx context.Context, f Filters, limit, offset int) ([]Practitioner, int, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if f.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argIndex)
		args = append(args, *f.Active)
		argIndex++
	}
	if f.Specialization != "" {
		where += fmt.Sprintf(" AND specialization ILIKE $%d", argIndex)
		args = append(args, "%"+f.Specialization+"%")
		argIndex++
	}
	if f.Name != "" {
		where += fmt.Sprintf(" AND (family_name ILIKE $%d OR given_name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Name+"%")
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM practitioners WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count practitioners: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM practitioners
		WHERE %s
		ORDER BY family_name, given_name
		LIMIT $%d OFFSET $%d
	`, practitionerColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query practitioners: %w", err)
	}
	defer rows.Close()

	var practitioners []Practitioner
	for rows.Next() {
		p, err := scanPractitioner(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan practitioner: %w", err)
		}
		practitioners = append(practitioners, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating practitioners: %w", err)
	}

	return practitioners, total, nil
}

// Update performs a full replace of the stored row, keeping created_at
func (r *Repository) Update(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	query := fmt.Sprintf(`
		UPDATE practitioners
		SET prefix = $1, family_name = $2, given_name = $3, middle_name = $4, gender = $5, birth_date = $6,
			npi = $7, license_number = $8, specialization = $9, qualification = $10, years_of_experience = $11,
			address_line = $12, city = $13, state = $14, postal_code = $15, country = $16,
			email = $17, phone = $18, active = $19, updated_at = $20
		WHERE id = $21
		RETURNING %s
	`, practitionerColumns)

	updated, err := scanPractitioner(r.db.QueryRowContext(ctx, query,
		nullIfEmpty(p.Prefix),
		p.FamilyName,
		p.GivenName,
		nullIfEmpty(p.MiddleName),
		p.Gender,
		p.BirthDate,
		p.NPI,
		p.LicenseNumber,
		p.Specialization,
		nullIfEmpty(p.Qualification),
		p.YearsOfExperience,
		nullIfEmpty(p.AddressLine),
		nullIfEmpty(p.City),
		nullIfEmpty(p.State),
		nullIfEmpty(p.PostalCode),
		nullIfEmpty(p.Country),
		nullIfEmpty(p.Email),
		nullIfEmpty(p.Phone),
		p.Active,
		time.Now(),
		p.ID,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPractitionerNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrNPITaken
		}
		return nil, fmt.Errorf("failed to update practitioner: %w", err)
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM practitioners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPractitionerNotFound
	}

	return nil
}
