/*
Package sqlite provides SQLite-backed persistence for surcharge runs.

PURPOSE:
  Persists each batch run (the dated occurrence detail plus the
  reconciled payable rows) and the institution-level holiday overrides
  that overlay the national calendar.

KEY TABLES:
  runs:              One row per executed batch with row counts
  scheduled_detail:  Surviving occurrences of a run
  reconciled:        Deduplicated payable rows of a run
  holidays:          Institution-level holiday overrides

HOLIDAY CALENDAR:
  Store implements holiday.Calendar, so it can be composed with the
  national calendar: a date stored here is a holiday for every run that
  follows, without touching the national table.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; SQLite runs in WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/surcharge.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - holiday/: Calendar interface and national implementation
  - engine/: Produces the results persisted here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/campus/surcharge-engine/attendance"
	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

const dateFormat = "2006-01-02"

// Store persists runs, their output tables, and holiday overrides.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		schedule_rows INTEGER NOT NULL,
		attendance_rows INTEGER NOT NULL,
		detail_rows INTEGER NOT NULL,
		reconciled_rows INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scheduled_detail (
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		month TEXT NOT NULL,
		weekday TEXT NOT NULL,
		person_id TEXT NOT NULL,
		person_name TEXT NOT NULL,
		plan_code INTEGER NOT NULL,
		activity TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		surcharge_minutes INTEGER NOT NULL,
		surcharge_hours TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_detail_run
		ON scheduled_detail(run_id);
	CREATE INDEX IF NOT EXISTS idx_detail_person_date
		ON scheduled_detail(person_id, date);

	CREATE TABLE IF NOT EXISTS reconciled (
		run_id TEXT NOT NULL,
		join_key TEXT NOT NULL,
		person_id TEXT NOT NULL,
		date TEXT NOT NULL,
		role TEXT,
		clock_in TEXT,
		clock_out TEXT,
		matched BOOLEAN NOT NULL,
		earliest_start TEXT,
		latest_end TEXT,
		scheduled_hours TEXT NOT NULL,
		difference_hours TEXT NOT NULL,
		payable_hours TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reconciled_run
		ON reconciled(run_id);

	-- One payable row per (run, person, day) after deduplication
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reconciled_unique
		ON reconciled(run_id, join_key);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUNS
// =============================================================================

// Run is the stored header of one executed batch.
type Run struct {
	ID             string
	ScheduleRows   int
	AttendanceRows int
	DetailRows     int
	ReconciledRows int
	CreatedAt      time.Time
}

// SaveRun persists a run header plus its detail and reconciled tables in
// one transaction and returns the generated run ID.
func (s *Store) SaveRun(ctx context.Context, in engine.Input, result *engine.Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, schedule_rows, attendance_rows, detail_rows, reconciled_rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, len(in.Schedule), len(in.Attendance), len(result.Detail), len(result.DailyReconciled), now)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, occ := range result.Detail {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scheduled_detail
			(run_id, date, month, weekday, person_id, person_name, plan_code, activity,
			 start_time, end_time, surcharge_minutes, surcharge_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			occ.Date.Format(dateFormat),
			occ.Month,
			string(occ.Weekday),
			occ.PersonID,
			occ.PersonName,
			occ.PlanCode,
			occ.Activity,
			occ.Start.String(),
			occ.End.String(),
			occ.SurchargeMinutes,
			occ.SurchargeHours().String(),
		)
		if err != nil {
			return "", fmt.Errorf("insert detail row: %w", err)
		}
	}

	for _, row := range result.DailyReconciled {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reconciled
			(run_id, join_key, person_id, date, role, clock_in, clock_out, matched,
			 earliest_start, latest_end, scheduled_hours, difference_hours, payable_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			row.JoinKey,
			row.PersonID,
			row.Date.Format(dateFormat),
			row.Role,
			row.ClockIn,
			row.ClockOut,
			row.Matched,
			row.EarliestStart.String(),
			row.LatestEnd.String(),
			row.ScheduledHours.String(),
			row.DifferenceHours.String(),
			row.PayableHours.String(),
		)
		if err != nil {
			return "", fmt.Errorf("insert reconciled row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schedule_rows, attendance_rows, detail_rows, reconciled_rows, created_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ScheduleRows, &r.AttendanceRows, &r.DetailRows, &r.ReconciledRows, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetDetail returns the surviving occurrences of a run.
func (s *Store) GetDetail(ctx context.Context, runID string) ([]surcharge.Occurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, month, weekday, person_id, person_name, plan_code, activity,
		       start_time, end_time, surcharge_minutes
		FROM scheduled_detail WHERE run_id = ? ORDER BY date, person_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("get detail: %w", err)
	}
	defer rows.Close()

	var out []surcharge.Occurrence
	for rows.Next() {
		var occ surcharge.Occurrence
		var date, weekday, start, end string
		if err := rows.Scan(&date, &occ.Month, &weekday, &occ.PersonID, &occ.PersonName,
			&occ.PlanCode, &occ.Activity, &start, &end, &occ.SurchargeMinutes); err != nil {
			return nil, fmt.Errorf("scan detail row: %w", err)
		}
		occ.Date, _ = time.Parse(dateFormat, date)
		occ.Weekday = schedule.Weekday(weekday)
		occ.Start, _ = schedule.ParseTimeOfDay(start)
		occ.End, _ = schedule.ParseTimeOfDay(end)
		out = append(out, occ)
	}
	return out, rows.Err()
}

// GetReconciled returns the deduplicated payable rows of a run.
func (s *Store) GetReconciled(ctx context.Context, runID string) ([]attendance.Reconciled, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT join_key, person_id, date, role, clock_in, clock_out, matched,
		       earliest_start, latest_end, scheduled_hours, difference_hours, payable_hours
		FROM reconciled WHERE run_id = ? ORDER BY join_key`, runID)
	if err != nil {
		return nil, fmt.Errorf("get reconciled: %w", err)
	}
	defer rows.Close()

	var out []attendance.Reconciled
	for rows.Next() {
		var rec attendance.Reconciled
		var date, start, end, scheduled, difference, payable string
		if err := rows.Scan(&rec.JoinKey, &rec.PersonID, &date, &rec.Role, &rec.ClockIn,
			&rec.ClockOut, &rec.Matched, &start, &end, &scheduled, &difference, &payable); err != nil {
			return nil, fmt.Errorf("scan reconciled row: %w", err)
		}
		rec.Date, _ = time.Parse(dateFormat, date)
		rec.EarliestStart, _ = schedule.ParseTimeOfDay(start)
		rec.LatestEnd, _ = schedule.ParseTimeOfDay(end)
		rec.ScheduledHours = parseDecimal(scheduled)
		rec.DifferenceHours = parseDecimal(difference)
		rec.PayableHours = parseDecimal(payable)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// HOLIDAY OVERRIDES (implements holiday.Calendar)
// =============================================================================

// StoredHoliday is one institution-level holiday override.
type StoredHoliday struct {
	ID   string
	Date time.Time
	Name string
}

// AddHoliday stores an override and returns its generated ID.
func (s *Store) AddHoliday(ctx context.Context, date time.Time, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, created_at) VALUES (?, ?, ?, ?)`,
		id, date.Format(dateFormat), name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert holiday: %w", err)
	}
	return id, nil
}

// ListHolidays returns every override, ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]StoredHoliday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	var out []StoredHoliday
	for rows.Next() {
		var h StoredHoliday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Name); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		h.Date, _ = time.Parse(dateFormat, date)
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteHoliday removes an override by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	return nil
}

// IsHoliday implements holiday.Calendar over the overrides table, so the
// store composes with the national calendar.
func (s *Store) IsHoliday(date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM holidays WHERE date = ?`, date.Format(dateFormat)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("holiday lookup: %w", err)
	}
	return count > 0, nil
}
