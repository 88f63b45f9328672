package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// historyTimeLayout matches SQLite's datetime() text so range filters compare
// as strings.
const historyTimeLayout = "2006-01-02 15:04:05"

// Tracker stores finished cycles in SQLite.
type Tracker struct {
	db *sql.DB
}

// NewTracker opens or creates the history database.
func NewTracker(dbPath string) (*Tracker, error) {
	if !DriverAvailable {
		return nil, ErrNoDriver
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Tracker{db: db}, nil
}

// RecordCycle stores a finished cycle. It satisfies CycleRecorder.
func (t *Tracker) RecordCycle(c Cycle) error {
	_, err := t.db.Exec(insertSQL,
		c.ID,
		c.StartedAt.UTC().Format(historyTimeLayout),
		c.EndedAt.UTC().Format(historyTimeLayout),
		int64(c.Duration/time.Second),
		c.AxisTraveling.X, c.AxisTraveling.Y, c.AxisTraveling.Z,
		c.ExtrusionTraveling,
		string(c.Outcome),
	)
	if err != nil {
		return fmt.Errorf("record cycle: %w", err)
	}

	// Cleanup old records
	t.db.Exec(cleanupSQL)

	return nil
}

// GetSummary returns aggregate history stats.
func (t *Tracker) GetSummary() (*Summary, error) {
	var s Summary
	err := t.db.QueryRow(summarySQL).Scan(&s.TotalCycles, &s.Completed, &s.TotalDuration, &s.AxisX, &s.AxisY, &s.AxisZ, &s.Extrusion)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return &s, nil
}

// GetDaily returns daily stats for the last N days.
func (t *Tracker) GetDaily(days int) ([]DayStats, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := t.db.Query(dailySQL, fmt.Sprintf("-%d", days))
	if err != nil {
		return nil, fmt.Errorf("daily: %w", err)
	}
	defer rows.Close()

	var stats []DayStats
	for rows.Next() {
		var d DayStats
		if err := rows.Scan(&d.Day, &d.Cycles, &d.Duration, &d.AxisTotal, &d.Extrusion); err != nil {
			return nil, fmt.Errorf("daily scan: %w", err)
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// GetRecent returns the last N cycles, newest first.
func (t *Tracker) GetRecent(n int) ([]CycleRecord, error) {
	rows, err := t.db.Query(recentSQL, n)
	if err != nil {
		return nil, fmt.Errorf("recent: %w", err)
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var r CycleRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.EndedAt, &r.Duration, &r.AxisX, &r.AxisY, &r.AxisZ, &r.Extrusion, &r.Outcome); err != nil {
			return nil, fmt.Errorf("recent scan: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetByOutcome returns aggregate stats per outcome.
func (t *Tracker) GetByOutcome() ([]OutcomeStats, error) {
	rows, err := t.db.Query(byOutcomeSQL)
	if err != nil {
		return nil, fmt.Errorf("by outcome: %w", err)
	}
	defer rows.Close()

	var stats []OutcomeStats
	for rows.Next() {
		var s OutcomeStats
		if err := rows.Scan(&s.Outcome, &s.Count, &s.Duration, &s.Extrusion); err != nil {
			return nil, fmt.Errorf("by outcome scan: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Close closes the database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// DBPath resolves the history database path.
func DBPath(configPath string) string {
	if p := os.Getenv("PRINTMETER_DB_PATH"); p != "" {
		return p
	}
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "printmeter", "history.db")
}
