package db

import (
	"database/sql"
	"fmt"
	"log"
)

// schema holds the DDL applied at startup. Statements are idempotent so the
// service can be restarted against an existing database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		family_name VARCHAR(100) NOT NULL,
		given_name VARCHAR(100) NOT NULL,
		middle_name VARCHAR(100),
		gender VARCHAR(10) NOT NULL,
		birth_date DATE NOT NULL,
		address_line VARCHAR(255),
		city VARCHAR(100),
		state VARCHAR(100),
		postal_code VARCHAR(20),
		country VARCHAR(100),
		email VARCHAR(255),
		phone VARCHAR(50),
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_family_name ON patients (family_name)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_active ON patients (active)`,

	`CREATE TABLE IF NOT EXISTS practitioners (
		id UUID PRIMARY KEY,
		prefix VARCHAR(10),
		family_name VARCHAR(100) NOT NULL,
		given_name VARCHAR(100) NOT NULL,
		middle_name VARCHAR(100),
		gender VARCHAR(10) NOT NULL,
		birth_date DATE,
		npi VARCHAR(10) UNIQUE NOT NULL,
		license_number VARCHAR(50) NOT NULL,
		specialization VARCHAR(100) NOT NULL,
		qualification VARCHAR(255),
		years_of_experience INTEGER NOT NULL DEFAULT 0,
		address_line VARCHAR(255),
		city VARCHAR(100),
		state VARCHAR(100),
		postal_code VARCHAR(20),
		country VARCHAR(100),
		email VARCHAR(255),
		phone VARCHAR(50),
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_practitioners_specialization ON practitioners (specialization)`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		status VARCHAR(20) NOT NULL,
		cancellation_reason VARCHAR(255),
		service_category VARCHAR(100),
		service_type VARCHAR(100),
		specialty VARCHAR(100),
		appointment_type VARCHAR(100),
		reason_code VARCHAR(100),
		reason_description VARCHAR(255),
		priority INTEGER NOT NULL DEFAULT 5,
		description VARCHAR(255),
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		minutes_duration INTEGER NOT NULL DEFAULT 0,
		comment TEXT,
		patient_instruction TEXT,
		patient_id UUID NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
		patient_status VARCHAR(20) NOT NULL DEFAULT 'needs-action',
		practitioner_id UUID NOT NULL REFERENCES practitioners (id) ON DELETE CASCADE,
		practitioner_status VARCHAR(20) NOT NULL DEFAULT 'needs-action',
		practitioner_required VARCHAR(20) NOT NULL DEFAULT 'required',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_practitioner_time ON appointments (practitioner_id, start_time, end_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments (status)`,

	`CREATE TABLE IF NOT EXISTS prescriptions (
		id UUID PRIMARY KEY,
		status VARCHAR(20) NOT NULL,
		intent VARCHAR(20) NOT NULL DEFAULT 'order',
		priority VARCHAR(10) NOT NULL DEFAULT 'routine',
		medication_name VARCHAR(255) NOT NULL,
		medication_code VARCHAR(50),
		medication_form VARCHAR(50),
		medication_strength VARCHAR(50),
		dosage_text VARCHAR(255) NOT NULL,
		dosage_route VARCHAR(50),
		dosage_frequency VARCHAR(100),
		dose_quantity NUMERIC(10,3),
		dose_unit VARCHAR(50),
		dispense_quantity NUMERIC(10,3),
		dispense_unit VARCHAR(50),
		refills_allowed INTEGER NOT NULL DEFAULT 0,
		dispense_interval_days INTEGER NOT NULL DEFAULT 0,
		authored_on TIMESTAMPTZ NOT NULL,
		validity_start DATE,
		validity_end DATE,
		reason VARCHAR(255),
		notes TEXT,
		patient_id UUID NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
		prescriber_id UUID NOT NULL REFERENCES practitioners (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_status ON prescriptions (status)`,

	`CREATE TABLE IF NOT EXISTS clinical_records (
		id UUID PRIMARY KEY,
		record_type VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL,
		severity VARCHAR(20),
		title VARCHAR(255) NOT NULL,
		description TEXT,
		value_quantity NUMERIC(12,3),
		value_unit VARCHAR(50),
		onset_date DATE,
		resolution_date DATE,
		notes TEXT,
		patient_id UUID NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
		practitioner_id UUID REFERENCES practitioners (id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clinical_records_patient ON clinical_records (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clinical_records_type ON clinical_records (record_type)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		invoice_number VARCHAR(50) UNIQUE NOT NULL,
		status VARCHAR(20) NOT NULL,
		patient_id UUID NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
		invoice_date TIMESTAMPTZ NOT NULL,
		due_date DATE,
		total_net NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_gross NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		balance_due NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_method VARCHAR(50),
		payment_date TIMESTAMPTZ,
		description VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_patient ON invoices (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY,
		report_type VARCHAR(50) NOT NULL,
		format VARCHAR(10) NOT NULL,
		title VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		filters JSONB,
		record_count INTEGER NOT NULL DEFAULT 0,
		payload BYTEA,
		error_message TEXT,
		requested_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_requested_by ON reports (requested_by)`,

	`CREATE TABLE IF NOT EXISTS clinic_settings (
		id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		clinic_name VARCHAR(255) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		primary_color VARCHAR(7) NOT NULL DEFAULT '#1a5276',
		secondary_color VARCHAR(7) NOT NULL DEFAULT '#2e86c1',
		report_footer VARCHAR(255) NOT NULL DEFAULT '',
		include_logo BOOLEAN NOT NULL DEFAULT false,
		updated_at TIMESTAMPTZ
	)`,
	`INSERT INTO clinic_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
}

// Migrate applies the embedded schema to the database
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	log.Println("✓ Database schema applied")
	return nil
}
