package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// reportQuery describes how one report type maps onto the database: the
// projected columns, the base FROM clause with ordering, and which filter
// keys translate into which WHERE conditions.
type reportQuery struct {
	columns []string
	base    string
	orderBy string
	filters map[string]string
}

var reportQueries = map[string]reportQuery{
	TypePatients: {
		columns: []string{"id", "family_name", "given_name", "gender", "birth_date", "email", "phone", "active", "created_at"},
		base:    "FROM patients",
		orderBy: "family_name, given_name",
		filters: map[string]string{
			"gender": "gender = %s",
			"active": "active = %s",
			"from":   "created_at >= %s",
			"to":     "created_at < %s",
		},
	},
	TypePractitioners: {
		columns: []string{"id", "family_name", "given_name", "npi", "specialization", "license_number", "years_of_experience", "active"},
		base:    "FROM practitioners",
		orderBy: "family_name, given_name",
		filters: map[string]string{
			"specialization": "specialization = %s",
			"gender":         "gender = %s",
			"active":         "active = %s",
		},
	},
	TypeAppointments: {
		columns: []string{"id", "status", "start_time", "end_time", "minutes_duration", "patient_id", "practitioner_id", "service_type", "description"},
		base:    "FROM appointments",
		orderBy: "start_time DESC",
		filters: map[string]string{
			"status":       "status = %s",
			"patient":      "patient_id = %s",
			"practitioner": "practitioner_id = %s",
			"from":         "start_time >= %s",
			"to":           "start_time < %s",
		},
	},
	TypePrescriptions: {
		columns: []string{"id", "status", "medication_name", "dosage_text", "refills_allowed", "authored_on", "patient_id", "prescriber_id"},
		base:    "FROM prescriptions",
		orderBy: "authored_on DESC",
		filters: map[string]string{
			"status":       "status = %s",
			"patient":      "patient_id = %s",
			"practitioner": "prescriber_id = %s",
			"from":         "authored_on >= %s",
			"to":           "authored_on < %s",
		},
	},
	TypeInvoices: {
		columns: []string{"id", "invoice_number", "status", "patient_id", "invoice_date", "due_date", "total_gross", "amount_paid", "balance_due"},
		base:    "FROM invoices",
		orderBy: "invoice_date DESC",
		filters: map[string]string{
			"status":  "status = %s",
			"patient": "patient_id = %s",
			"from":    "invoice_date >= %s",
			"to":      "invoice_date < %s",
		},
	},
	TypeClinicalRecords: {
		columns: []string{"id", "record_type", "status", "severity", "title", "onset_date", "patient_id", "practitioner_id"},
		base:    "FROM clinical_records",
		orderBy: "created_at DESC",
		filters: map[string]string{
			"record_type":  "record_type = %s",
			"status":       "status = %s",
			"patient":      "patient_id = %s",
			"practitioner": "practitioner_id = %s",
			"from":         "created_at >= %s",
			"to":           "created_at < %s",
		},
	},
}

// DataProvider runs the per-type report queries
type DataProvider struct {
	db *sql.DB
}

var _ DataProviderInterface = (*DataProvider)(nil)

// NewDataProvider creates a report data provider
func NewDataProvider(db *sql.DB) *DataProvider {
	return &DataProvider{db: db}
}

// Fetch runs the query for a report type and returns its rows as strings.
// Unknown filter keys are ignored.
func (p *DataProvider) Fetch(ctx context.Context, reportType string, filters map[string]string) (*TableData, error) {
	spec, ok := reportQueries[reportType]
	if !ok {
		return nil, ErrInvalidType
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1
	for key, condition := range spec.filters {
		value, ok := filters[key]
		if !ok || value == "" {
			continue
		}
		where += " AND " + fmt.Sprintf(condition, fmt.Sprintf("$%d", argIndex))
		args = append(args, value)
		argIndex++
	}

	// Casting to text keeps the row scan uniform across column types
	projected := make([]string, len(spec.columns))
	for i, col := range spec.columns {
		projected[i] = col + "::text"
	}
	query := fmt.Sprintf("SELECT %s %s %s ORDER BY %s",
		strings.Join(projected, ", "), spec.base, where, spec.orderBy)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run report query: %w", err)
	}
	defer rows.Close()

	data := &TableData{Columns: spec.columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(spec.columns))
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = cell.String
		}
		data.Rows = append(data.Rows, row)
	}
	return data, rows.Err()
}

// Fields returns the column names a report type exports
func Fields(reportType string) []string {
	spec, ok := reportQueries[reportType]
	if !ok {
		return nil
	}
	return spec.columns
}
