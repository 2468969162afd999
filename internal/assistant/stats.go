package assistant

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// StatsProvider builds the aggregate statistics block fed to the model
type StatsProvider struct {
	db *sql.DB
}

var _ StatsProviderInterface = (*StatsProvider)(nil)

// NewStatsProvider creates a statistics provider
func NewStatsProvider(db *sql.DB) *StatsProvider {
	return &StatsProvider{db: db}
}

// BuildContext summarizes the clinical database into a text block. Each
// section degrades independently so a failing query never loses the rest.
func (p *StatsProvider) BuildContext(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("Current system statistics:\n")

	p.writeCounts(ctx, &b, "Patients", map[string]string{
		"total":  `SELECT COUNT(*) FROM patients`,
		"active": `SELECT COUNT(*) FROM patients WHERE active`,
	})
	p.writeCounts(ctx, &b, "Practitioners", map[string]string{
		"total":  `SELECT COUNT(*) FROM practitioners`,
		"active": `SELECT COUNT(*) FROM practitioners WHERE active`,
	})
	p.writeCounts(ctx, &b, "Appointments", map[string]string{
		"total":        `SELECT COUNT(*) FROM appointments`,
		"last 7 days":  `SELECT COUNT(*) FROM appointments WHERE created_at >= NOW() - INTERVAL '7 days'`,
		"last 30 days": `SELECT COUNT(*) FROM appointments WHERE created_at >= NOW() - INTERVAL '30 days'`,
		"upcoming":     `SELECT COUNT(*) FROM appointments WHERE status IN ('proposed', 'pending', 'booked') AND start_time >= NOW()`,
	})
	p.writeCounts(ctx, &b, "Prescriptions", map[string]string{
		"total":        `SELECT COUNT(*) FROM prescriptions`,
		"last 7 days":  `SELECT COUNT(*) FROM prescriptions WHERE authored_on >= NOW() - INTERVAL '7 days'`,
		"last 30 days": `SELECT COUNT(*) FROM prescriptions WHERE authored_on >= NOW() - INTERVAL '30 days'`,
		"active":       `SELECT COUNT(*) FROM prescriptions WHERE status = 'active'`,
	})
	p.writeCounts(ctx, &b, "Invoices", map[string]string{
		"total":     `SELECT COUNT(*) FROM invoices`,
		"pending":   `SELECT COUNT(*) FROM invoices WHERE status = 'issued' AND balance_due > 0`,
		"paid":      `SELECT COUNT(*) FROM invoices WHERE status = 'balanced'`,
		"cancelled": `SELECT COUNT(*) FROM invoices WHERE status = 'cancelled'`,
	})
	p.writeCounts(ctx, &b, "Clinical records", map[string]string{
		"total":       `SELECT COUNT(*) FROM clinical_records`,
		"last 7 days": `SELECT COUNT(*) FROM clinical_records WHERE created_at >= NOW() - INTERVAL '7 days'`,
	})

	p.writeTop(ctx, &b, "Top specialties by appointment volume",
		`SELECT pr.specialization, COUNT(*) AS n
		 FROM appointments a JOIN practitioners pr ON pr.id = a.practitioner_id
		 GROUP BY pr.specialization ORDER BY n DESC LIMIT 3`)
	p.writeTop(ctx, &b, "Top medications last 30 days",
		`SELECT medication_name, COUNT(*) AS n
		 FROM prescriptions WHERE authored_on >= NOW() - INTERVAL '30 days'
		 GROUP BY medication_name ORDER BY n DESC LIMIT 3`)

	return b.String(), nil
}

func (p *StatsProvider) writeCounts(ctx context.Context, b *strings.Builder, label string, queries map[string]string) {
	parts := []string{}
	// Stable ordering keeps the cache key stable for identical data
	for _, key := range orderedKeys(queries) {
		var n int
		if err := p.db.QueryRowContext(ctx, queries[key]).Scan(&n); err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", key, n))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, ", "))
	}
}

func (p *StatsProvider) writeTop(ctx context.Context, b *strings.Builder, label, query string) {
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return
	}
	defer rows.Close()

	parts := []string{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", name, n))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, ", "))
	}
}

func orderedKeys(queries map[string]string) []string {
	order := []string{"total", "active", "last 7 days", "last 30 days", "upcoming", "pending", "paid", "cancelled"}
	keys := []string{}
	for _, k := range order {
		if _, ok := queries[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}
