/*
Package sqlite provides the SQLite-backed persistence for the attendance
service.

PURPOSE:
  Implements storage for everything the HTTP facade needs around the
  evaluation core: employees, weekly shift templates, the punch log,
  exceptions, rule packages, and evaluation-result audit rows. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  The punch log is append-only:
  - No UPDATE statements on the punches table
  - No DELETE statements on the punches table
  - A UNIQUE(employee_id, punch_type, timestamp) index backstops the
    validator's duplicate suppression at the storage layer

KEY TABLES:
  employees:          Identity records
  shift_templates:    Weekly templates (one active per employee)
  template_shifts:    Day-of-week windows belonging to a template
  punches:            Immutable clock-event log
  exceptions:         Deviations with a pending/approved/rejected workflow
  rule_packages:      Tenant rule-package JSON (decoded by the factory)
  evaluation_results: Audit rows for compliance evaluation runs

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL so
  readers don't block each other.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - attendance: The domain types persisted here
  - api: The only caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shiftwise/attendance-engine/attendance"
)

// Store implements all storage for the attendance service using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (identity as supplied by the platform)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_tenant
		ON employees(tenant_id);

	-- Weekly shift templates
	CREATE TABLE IF NOT EXISTS shift_templates (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_templates_employee
		ON shift_templates(employee_id, active);

	CREATE TABLE IF NOT EXISTS template_shifts (
		template_id TEXT NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (template_id, day_of_week)
	);

	-- Punches (append-only clock-event log)
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		punch_type TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_time
		ON punches(employee_id, timestamp DESC);

	-- Storage-level backstop beneath the validator's duplicate check
	CREATE UNIQUE INDEX IF NOT EXISTS idx_punches_unique_event
		ON punches(employee_id, punch_type, timestamp);

	-- Exceptions (pending -> approved/rejected workflow)
	CREATE TABLE IF NOT EXISTS exceptions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		exception_type TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exceptions_employee_date
		ON exceptions(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_exceptions_status
		ON exceptions(status);

	-- Rule packages (config decoded by the factory package)
	CREATE TABLE IF NOT EXISTS rule_packages (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rule_packages_tenant
		ON rule_packages(tenant_id);

	-- Evaluation results (audit rows, one per evaluation call)
	CREATE TABLE IF NOT EXISTS evaluation_results (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		rule_package_id TEXT NOT NULL,
		range_start TEXT NOT NULL,
		range_end TEXT NOT NULL,
		violation_count INTEGER NOT NULL,
		has_errors BOOLEAN NOT NULL,
		has_warnings BOOLEAN NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluation_results_employee
		ON evaluation_results(employee_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, tenant_id, employee_id, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.TenantID, e.EmployeeID, e.FirstName, e.LastName,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, tenant_id, employee_id, first_name, last_name FROM employees WHERE id = ?`

	var e attendance.Employee
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.FirstName, &e.LastName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, tenantID string) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenant_id, employee_id, first_name, last_name
		FROM employees WHERE tenant_id = ? ORDER BY last_name, first_name
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		var e attendance.Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.EmployeeID, &e.FirstName, &e.LastName); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// SHIFT TEMPLATES
// =============================================================================

// SaveTemplate stores a weekly template and its shifts. Saving an active
// template deactivates the employee's previous templates - an employee
// has at most one active template.
func (s *Store) SaveTemplate(ctx context.Context, t attendance.WeeklyTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if t.Active {
		if _, err := tx.ExecContext(ctx,
			`UPDATE shift_templates SET active = FALSE WHERE employee_id = ?`, t.EmployeeID); err != nil {
			return fmt.Errorf("failed to deactivate templates: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shift_templates (id, employee_id, active, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET active = excluded.active
	`, t.ID, t.EmployeeID, t.Active, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_shifts WHERE template_id = ?`, t.ID); err != nil {
		return err
	}
	for _, shift := range t.Shifts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO template_shifts (template_id, day_of_week, start_time, end_time, break_minutes)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, shift.DayOfWeek, shift.StartTime, shift.EndTime, shift.BreakMinutes); err != nil {
			return fmt.Errorf("failed to save template shift: %w", err)
		}
	}

	return tx.Commit()
}

// ActiveTemplates returns the employee's active weekly templates (at most
// one after SaveTemplate, but the builder tolerates several).
func (s *Store) ActiveTemplates(ctx context.Context, employeeID string) ([]attendance.WeeklyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id FROM shift_templates
		WHERE employee_id = ? AND active = TRUE ORDER BY created_at
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	defer rows.Close()

	var templates []attendance.WeeklyTemplate
	for rows.Next() {
		var t attendance.WeeklyTemplate
		if err := rows.Scan(&t.ID, &t.EmployeeID); err != nil {
			return nil, err
		}
		t.Active = true
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		shifts, err := s.templateShifts(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Shifts = shifts
	}
	return templates, nil
}

func (s *Store) templateShifts(ctx context.Context, templateID string) ([]attendance.ShiftWindow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day_of_week, start_time, end_time, break_minutes
		FROM template_shifts WHERE template_id = ? ORDER BY day_of_week
	`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []attendance.ShiftWindow
	for rows.Next() {
		var w attendance.ShiftWindow
		if err := rows.Scan(&w.DayOfWeek, &w.StartTime, &w.EndTime, &w.BreakMinutes); err != nil {
			return nil, err
		}
		shifts = append(shifts, w)
	}
	return shifts, rows.Err()
}

// =============================================================================
// PUNCH LOG (append-only)
// =============================================================================

// AppendPunch adds an accepted punch to the log. This is the ONLY write
// operation on the punches table.
func (s *Store) AppendPunch(ctx context.Context, p attendance.PunchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO punches (id, employee_id, tenant_id, punch_type, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.EmployeeID, p.TenantID, string(p.Type),
		p.Timestamp.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return attendance.ErrDuplicatePunch
		}
		return fmt.Errorf("failed to append punch: %w", err)
	}
	return nil
}

// RecentPunches returns the employee's punches in the 24 hours before
// the given moment, most-recent-first, capped at limit. This is the
// snapshot shape the validator expects.
func (s *Store) RecentPunches(ctx context.Context, employeeID string, before time.Time, limit int) ([]attendance.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, tenant_id, punch_type, timestamp
		FROM punches
		WHERE employee_id = ? AND timestamp > ? AND timestamp <= ?
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query,
		employeeID,
		before.Add(-24*time.Hour).UTC().Format(time.RFC3339),
		before.UTC().Format(time.RFC3339),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

// PunchesInRange returns punches in [from, to] chronologically.
func (s *Store) PunchesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, tenant_id, punch_type, timestamp
		FROM punches
		WHERE employee_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query,
		employeeID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

func scanPunches(rows *sql.Rows) ([]attendance.PunchEvent, error) {
	var punches []attendance.PunchEvent
	for rows.Next() {
		var p attendance.PunchEvent
		var punchType, timestamp string
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.TenantID, &punchType, &timestamp); err != nil {
			return nil, err
		}
		p.Type = attendance.PunchType(punchType)
		t, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("corrupt punch timestamp %q: %w", timestamp, err)
		}
		p.Timestamp = t
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// =============================================================================
// EXCEPTIONS
// =============================================================================

func (s *Store) SaveException(ctx context.Context, e attendance.Exception) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO exceptions
		(id, employee_id, tenant_id, exception_type, date, start_time, end_time, status, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.EmployeeID, e.TenantID, string(e.Type),
		e.Date.UTC().Format("2006-01-02"),
		nullString(e.StartTime), nullString(e.EndTime),
		string(e.Status), e.Reason, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save exception: %w", err)
	}
	return nil
}

// SetExceptionStatus moves an exception through the approval workflow.
func (s *Store) SetExceptionStatus(ctx context.Context, id string, status attendance.ExceptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE exceptions SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update exception: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return attendance.ErrExceptionNotFound
	}
	return nil
}

// ExceptionsInRange returns the employee's exceptions (any status) whose
// date falls in [from, to].
func (s *Store) ExceptionsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Exception, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, tenant_id, exception_type, date, start_time, end_time, status, reason
		FROM exceptions
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query,
		employeeID,
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []attendance.Exception
	for rows.Next() {
		var e attendance.Exception
		var excType, date, status string
		var startTime, endTime sql.NullString
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.TenantID, &excType, &date, &startTime, &endTime, &status, &reason); err != nil {
			return nil, err
		}
		e.Type = attendance.ExceptionType(excType)
		e.Status = attendance.ExceptionStatus(status)
		e.StartTime = startTime.String
		e.EndTime = endTime.String
		e.Reason = reason.String
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("corrupt exception date %q: %w", date, err)
		}
		e.Date = d
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

// =============================================================================
// RULE PACKAGES
// =============================================================================

// RulePackageRecord is a stored rule package; config is decoded by the
// factory package on load.
type RulePackageRecord struct {
	ID         string
	TenantID   string
	ConfigJSON string
	UpdatedAt  time.Time
}

func (s *Store) SaveRulePackage(ctx context.Context, r RulePackageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO rule_packages (id, tenant_id, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.TenantID, r.ConfigJSON, now, now)
	if err != nil {
		return fmt.Errorf("failed to save rule package: %w", err)
	}
	return nil
}

func (s *Store) GetRulePackage(ctx context.Context, id string) (*RulePackageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r RulePackageRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, config_json, updated_at FROM rule_packages WHERE id = ?
	`, id).Scan(&r.ID, &r.TenantID, &r.ConfigJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule package: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		r.UpdatedAt = t
	}
	return &r, nil
}

func (s *Store) ListRulePackages(ctx context.Context, tenantID string) ([]RulePackageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, config_json, updated_at FROM rule_packages
		WHERE tenant_id = ? ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule packages: %w", err)
	}
	defer rows.Close()

	var records []RulePackageRecord
	for rows.Next() {
		var r RulePackageRecord
		var updatedAt string
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ConfigJSON, &updatedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			r.UpdatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// EVALUATION RESULTS
// =============================================================================

// EvaluationRecord is one persisted evaluation run.
type EvaluationRecord struct {
	ID             string
	EmployeeID     string
	RulePackageID  string
	RangeStart     time.Time
	RangeEnd       time.Time
	ViolationCount int
	HasErrors      bool
	HasWarnings    bool
	ResultJSON     string
	CreatedAt      time.Time
}

func (s *Store) SaveEvaluationResult(ctx context.Context, r EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO evaluation_results
		(id, employee_id, rule_package_id, range_start, range_end,
		 violation_count, has_errors, has_warnings, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.RulePackageID,
		r.RangeStart.UTC().Format("2006-01-02"),
		r.RangeEnd.UTC().Format("2006-01-02"),
		r.ViolationCount, r.HasErrors, r.HasWarnings, r.ResultJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

func (s *Store) ListEvaluationResults(ctx context.Context, employeeID string, limit int) ([]EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, rule_package_id, range_start, range_end,
		       violation_count, has_errors, has_warnings, result_json, created_at
		FROM evaluation_results
		WHERE employee_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation results: %w", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var r EvaluationRecord
		var rangeStart, rangeEnd, createdAt string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.RulePackageID, &rangeStart, &rangeEnd,
			&r.ViolationCount, &r.HasErrors, &r.HasWarnings, &r.ResultJSON, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse("2006-01-02", rangeStart); err == nil {
			r.RangeStart = t
		}
		if t, err := time.Parse("2006-01-02", rangeEnd); err == nil {
			r.RangeEnd = t
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
