package patient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const patientColumns = `id, family_name, given_name, middle_name, gender, birth_date,
	address_line, city, state, postal_code, country, email, phone, active, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanPatient(scan func(dest ...interface{}) error) (*Patient, error) {
	var p Patient
	var middleName, addressLine, city, state, postalCode, country, email, phone sql.NullString
	var updatedAt sql.NullTime

	err := scan(
		&p.ID,
		&p.FamilyName,
		&p.GivenName,
		&middleName,
		&p.Gender,
		&p.BirthDate,
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

	p.MiddleName = middleName.String
	p.AddressLine = addressLine.String
	p.City = city.String
	p.State = state.String
	p.PostalCode = postalCode.String
	p.Country = country.String
	p.Email = email.String
	p.Phone = phone.String
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

func (r *Repository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO patients (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL)
		RETURNING %s
	`, patientColumns, patientColumns)

	created, err := scanPatient(r.db.QueryRowContext(ctx, query,
		p.ID,
		p.FamilyName,
		p.GivenName,
		nullIfEmpty(p.MiddleName),
		p.Gender,
		p.BirthDate,
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
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}

	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1`, patientColumns)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}

	return p, nil
}

func (r *Repository) List(ctx context.Context, f Filters, limit, offset int) ([]Patient, int, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if f.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argIndex)
		args = append(args, *f.Active)
		argIndex++
	}
	if f.Gender != "" {
		where += fmt.Sprintf(" AND gender = $%d", argIndex)
		args = append(args, f.Gender)
		argIndex++
	}
	if f.Name != "" {
		where += fmt.Sprintf(" AND (family_name ILIKE $%d OR given_name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Name+"%")
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM patients WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM patients
		WHERE %s
		ORDER BY family_name, given_name
		LIMIT $%d OFFSET $%d
	`, patientColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, total, nil
}

// Update performs a full replace of the stored row, keeping created_at
func (r *Repository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	query := fmt.Sprintf(`
		UPDATE patients
		SET family_name = $1, given_name = $2, middle_name = $3, gender = $4, birth_date = $5,
			address_line = $6, city = $7, state = $8, postal_code = $9, country = $10,
			email = $11, phone = $12, active = $13, updated_at = $14
		WHERE id = $15
		RETURNING %s
	`, patientColumns)

	updated, err := scanPatient(r.db.QueryRowContext(ctx, query,
		p.FamilyName,
		p.GivenName,
		nullIfEmpty(p.MiddleName),
		p.Gender,
		p.BirthDate,
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
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPatientNotFound
	}

	return nil
}
