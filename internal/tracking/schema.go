package tracking

const createTableSQL = `
CREATE TABLE IF NOT EXISTS cycles (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL,
	duration_s INTEGER NOT NULL,
	axis_x REAL NOT NULL,
	axis_y REAL NOT NULL,
	axis_z REAL NOT NULL,
	extrusion REAL NOT NULL,
	outcome TEXT NOT NULL
);
`

const cleanupSQL = `DELETE FROM cycles WHERE ended_at < datetime('now', '-365 days');`

const insertSQL = `
INSERT INTO cycles (id, started_at, ended_at, duration_s, axis_x, axis_y, axis_z, extrusion, outcome)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const summarySQL = `
SELECT
	COUNT(*) as total_cycles,
	COALESCE(SUM(CASE WHEN outcome = 'done' THEN 1 ELSE 0 END), 0) as completed,
	COALESCE(SUM(duration_s), 0) as total_duration,
	COALESCE(SUM(axis_x), 0) as axis_x,
	COALESCE(SUM(axis_y), 0) as axis_y,
	COALESCE(SUM(axis_z), 0) as axis_z,
	COALESCE(SUM(extrusion), 0) as extrusion
FROM cycles;
`

const dailySQL = `
SELECT
	date(ended_at, 'localtime') as day,
	COUNT(*) as cycles,
	SUM(duration_s) as duration_s,
	SUM(axis_x + axis_y + axis_z) as axis_total,
	SUM(extrusion) as extrusion
FROM cycles
WHERE ended_at >= datetime('now', ? || ' days')
GROUP BY date(ended_at, 'localtime')
ORDER BY day DESC;
`

const recentSQL = `
SELECT id, started_at, ended_at, duration_s, axis_x, axis_y, axis_z, extrusion, outcome
FROM cycles
ORDER BY ended_at DESC, rowid DESC
LIMIT ?;
`

const byOutcomeSQL = `
SELECT
	outcome,
	COUNT(*) as count,
	SUM(duration_s) as duration_s,
	SUM(extrusion) as extrusion
FROM cycles
GROUP BY outcome
ORDER BY count DESC, outcome;
`

// Summary holds aggregate history stats.
type Summary struct {
	TotalCycles   int
	Completed     int
	TotalDuration int64 // seconds
	AxisX         float64
	AxisY         float64
	AxisZ         float64
	Extrusion     float64
}

// DayStats holds daily history stats.
type DayStats struct {
	Day       string
	Cycles    int
	Duration  int64
	AxisTotal float64
	Extrusion float64
}

// CycleRecord is a stored cycle. Timestamps stay in their stored UTC text form.
type CycleRecord struct {
	ID        string
	StartedAt string
	EndedAt   string
	Duration  int64
	AxisX     float64
	AxisY     float64
	AxisZ     float64
	Extrusion float64
	Outcome   string
}

// OutcomeStats holds aggregate stats per outcome.
type OutcomeStats struct {
	Outcome   string
	Count     int
	Duration  int64
	Extrusion float64
}
