package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/clinicore/patient-management-service/internal/db"
)

// SetupTestDB connects to the test database named by TEST_DATABASE_URL and
// applies the schema. Tests calling this are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	database, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return database
}

// CleanupTestDB truncates all service tables between tests
func CleanupTestDB(t *testing.T, database *sql.DB) {
	t.Helper()

	tables := []string{
		"reports",
		"invoices",
		"clinical_records",
		"prescriptions",
		"appointments",
		"practitioners",
		"patients",
		"users",
	}

	for _, table := range tables {
		if _, err := database.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Logf("Warning: Failed to clean up %s: %v", table, err)
		}
	}
}
