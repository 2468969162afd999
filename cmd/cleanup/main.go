package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/clinicore/patient-management-service/internal/db"
	"github.com/clinicore/patient-management-service/internal/report"
)

const defaultRetentionDays = 90

func main() {
	retentionDays := defaultRetentionDays
	if v := os.Getenv("REPORT_RETENTION_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			log.Fatalf("Invalid REPORT_RETENTION_DAYS value %q", v)
		}
		retentionDays = parsed
	}

	log.Println("Report Cleanup Job - Starting")
	log.Printf("Retention Policy: %d days", retentionDays)

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	repo := report.NewRepository(database)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	log.Printf("Deleting completed reports created before %s", cutoff.Format(time.RFC3339))

	deletedCount, err := repo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	if deletedCount == 0 {
		log.Println("No reports eligible for deletion. Exiting.")
		os.Exit(0)
	}

	log.Printf("✓ Cleanup completed successfully: %d reports permanently deleted", deletedCount)
	log.Println("Cleanup Job - Finished")
}
