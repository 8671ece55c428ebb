/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements the employee registry and the settlement ledger
  (settlement.ProfileSource, settlement.Ledger, settlement.Sequence) using
  SQLite. In production the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The settlements table is append-only:
  - No UPDATE statements on settlements
  - No DELETE statements on settlements
  Corrections are new records appended by a new computation.

KEY TABLES:
  employees:           Mutable compensation profiles (registry-owned)
  settlements:         Immutable history of computed settlements
  settlement_sequence: Single-row monotonic id source

ID ASSIGNMENT:
  Settlement ids are handed out by Next() from settlement_sequence inside a
  database transaction, under the store mutex. Ids are globally unique and
  never reused, even across recomputations for the same employee.

CONCURRENCY:
  sync.RWMutex guards the single writer. SQLite is opened in WAL mode so
  readers do not block and a crash cannot leave a half-written record.

MONEY:
  Monetary columns are TEXT holding decimal strings. Parsing back through
  shopspring/decimal keeps the historical table reconstructible bit-for-bit.

USAGE:
  store, err := sqlite.New("./prestaciones.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := settlement.NewEngine(store, store, store)

SEE ALSO:
  - settlement/ledger.go: interface definitions
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/quetzal-hr/prestaciones-engine/settlement"
)

const (
	dateLayout = "2006-01-02"
)

// Store implements the storage interfaces using SQLite.
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

// Ping verifies connectivity, for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (mutable compensation profiles)
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		national_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		avg_commissions TEXT,
		incentive_bonus TEXT,
		hire_date TEXT NOT NULL,
		termination_date TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_status
		ON employees(status);

	-- Settlements (append-only history)
	CREATE TABLE IF NOT EXISTS settlements (
		id INTEGER PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		computed_at TEXT NOT NULL,
		termination_date TEXT NOT NULL,
		days_of_relationship INTEGER NOT NULL,
		accrued_salary TEXT NOT NULL,
		severance TEXT NOT NULL,
		vacation_base TEXT NOT NULL,
		vacation_premium TEXT NOT NULL,
		vacation_total TEXT NOT NULL,
		annual_bonus TEXT NOT NULL,
		mid_year_bonus TEXT NOT NULL,
		economic_advantages TEXT NOT NULL,
		total TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_settlements_employee
		ON settlements(employee_id);

	-- Hot path: reverse-chronological history listing
	CREATE INDEX IF NOT EXISTS idx_settlements_computed_at
		ON settlements(computed_at DESC, id DESC);

	-- Monotonic settlement id source (single row)
	CREATE TABLE IF NOT EXISTS settlement_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO settlement_sequence (id, next) VALUES (1, 1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE REGISTRY
// =============================================================================

// CreateEmployee inserts a profile and returns it with the assigned id.
func (s *Store) CreateEmployee(ctx context.Context, p settlement.CompensationProfile) (settlement.CompensationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Status == "" {
		p.Status = settlement.StatusActive
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
		(national_id, first_name, last_name, base_salary, avg_commissions,
		 incentive_bonus, hire_date, termination_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.NationalID,
		p.FirstName,
		p.LastName,
		p.BaseSalary.String(),
		nullOptional(p.AvgCommissions),
		nullOptional(p.IncentiveBonus),
		p.HireDate.Format(dateLayout),
		nullDate(p.TerminationDate),
		string(p.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("failed to create employee: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("failed to read employee id: %w", err)
	}
	p.EmployeeID = settlement.EmployeeID(id)
	return p, nil
}

// Profile implements settlement.ProfileSource.
func (s *Store) Profile(ctx context.Context, id settlement.EmployeeID) (settlement.CompensationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, national_id, first_name, last_name, base_salary,
		       avg_commissions, incentive_bonus, hire_date, termination_date, status
		FROM employees WHERE id = ?`, int64(id))

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return settlement.CompensationProfile{}, settlement.ErrEmployeeNotFound
	}
	if err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("failed to load employee: %w", err)
	}
	return p, nil
}

// UpdateEmployee replaces a profile. Settlement history is untouched.
func (s *Store) UpdateEmployee(ctx context.Context, p settlement.CompensationProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET
			national_id = ?, first_name = ?, last_name = ?, base_salary = ?,
			avg_commissions = ?, incentive_bonus = ?, hire_date = ?,
			termination_date = ?, status = ?
		WHERE id = ?`,
		p.NationalID,
		p.FirstName,
		p.LastName,
		p.BaseSalary.String(),
		nullOptional(p.AvgCommissions),
		nullOptional(p.IncentiveBonus),
		p.HireDate.Format(dateLayout),
		nullDate(p.TerminationDate),
		string(p.Status),
		int64(p.EmployeeID),
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if n == 0 {
		return settlement.ErrEmployeeNotFound
	}
	return nil
}

// DeleteEmployee removes a profile. Settlements referencing the employee
// remain in the history.
func (s *Store) DeleteEmployee(ctx context.Context, id settlement.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n == 0 {
		return settlement.ErrEmployeeNotFound
	}
	return nil
}

// ListEmployees returns profiles ordered by id.
func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]settlement.CompensationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, national_id, first_name, last_name, base_salary,
		       avg_commissions, incentive_bonus, hire_date, termination_date, status
		FROM employees`
	if activeOnly {
		query += ` WHERE status = 'ACTIVE'`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []settlement.CompensationProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// SETTLEMENT LEDGER (settlement.Ledger)
// =============================================================================

// Append adds one settlement record. Append-only: the settlements table has
// no update or delete path.
func (s *Store) Append(ctx context.Context, rec settlement.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements
		(id, employee_id, computed_at, termination_date, days_of_relationship,
		 accrued_salary, severance, vacation_base, vacation_premium,
		 vacation_total, annual_bonus, mid_year_bonus, economic_advantages, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(rec.ID),
		int64(rec.EmployeeID),
		rec.ComputedAt.UTC().Format(time.RFC3339),
		rec.TerminationDate.Format(dateLayout),
		rec.DaysOfRelationship,
		rec.AccruedSalary.String(),
		rec.Severance.String(),
		rec.VacationBase.String(),
		rec.VacationPremium.String(),
		rec.VacationTotal.String(),
		rec.AnnualBonus.String(),
		rec.MidYearBonus.String(),
		rec.EconomicAdvantages.String(),
		rec.Total.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to append settlement: %w", err)
	}
	return nil
}

// List returns all settlements, most recent computation first.
func (s *Store) List(ctx context.Context) ([]settlement.SettlementRecord, error) {
	return s.list(ctx, `
		SELECT id, employee_id, computed_at, termination_date, days_of_relationship,
		       accrued_salary, severance, vacation_base, vacation_premium,
		       vacation_total, annual_bonus, mid_year_bonus, economic_advantages, total
		FROM settlements ORDER BY computed_at DESC, id DESC`)
}

// ListByEmployee returns one employee's settlements, most recent first.
func (s *Store) ListByEmployee(ctx context.Context, id settlement.EmployeeID) ([]settlement.SettlementRecord, error) {
	return s.list(ctx, `
		SELECT id, employee_id, computed_at, termination_date, days_of_relationship,
		       accrued_salary, severance, vacation_base, vacation_premium,
		       vacation_total, annual_bonus, mid_year_bonus, economic_advantages, total
		FROM settlements WHERE employee_id = ?
		ORDER BY computed_at DESC, id DESC`, int64(id))
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]settlement.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var out []settlement.SettlementRecord
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// =============================================================================
// SEQUENCE (settlement.Sequence)
// =============================================================================

// Next hands out the next settlement id. The increment runs inside a
// database transaction under the store mutex, so concurrent computations
// can never observe the same id.
func (s *Store) Next(ctx context.Context) (settlement.SettlementID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin sequence tx: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT next FROM settlement_sequence WHERE id = 1`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE settlement_sequence SET next = ? WHERE id = 1`, next+1); err != nil {
		return 0, fmt.Errorf("failed to advance sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence: %w", err)
	}
	return settlement.SettlementID(next), nil
}

// =============================================================================
// DEMO RESET
// =============================================================================

// ResetAll wipes every table and restarts both id sequences. This exists
// only for the demo scenario loaders; production code paths never delete
// from the settlements table.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []string{
		`DELETE FROM settlements`,
		`DELETE FROM employees`,
		`DELETE FROM sqlite_sequence WHERE name = 'employees'`,
		`UPDATE settlement_sequence SET next = 1 WHERE id = 1`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (settlement.CompensationProfile, error) {
	var (
		p               settlement.CompensationProfile
		id              int64
		baseSalary      string
		avgCommissions  sql.NullString
		incentiveBonus  sql.NullString
		hireDate        string
		terminationDate sql.NullString
		status          string
	)

	err := row.Scan(&id, &p.NationalID, &p.FirstName, &p.LastName, &baseSalary,
		&avgCommissions, &incentiveBonus, &hireDate, &terminationDate, &status)
	if err != nil {
		return settlement.CompensationProfile{}, err
	}

	p.EmployeeID = settlement.EmployeeID(id)
	p.Status = settlement.Status(status)

	if p.BaseSalary, err = decimal.NewFromString(baseSalary); err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("bad base_salary %q: %w", baseSalary, err)
	}
	if p.AvgCommissions, err = optionalFromNull(avgCommissions); err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("bad avg_commissions: %w", err)
	}
	if p.IncentiveBonus, err = optionalFromNull(incentiveBonus); err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("bad incentive_bonus: %w", err)
	}
	if p.HireDate, err = time.Parse(dateLayout, hireDate); err != nil {
		return settlement.CompensationProfile{}, fmt.Errorf("bad hire_date %q: %w", hireDate, err)
	}
	if terminationDate.Valid {
		t, err := time.Parse(dateLayout, terminationDate.String)
		if err != nil {
			return settlement.CompensationProfile{}, fmt.Errorf("bad termination_date %q: %w", terminationDate.String, err)
		}
		p.TerminationDate = &t
	}
	return p, nil
}

func scanSettlement(row rowScanner) (settlement.SettlementRecord, error) {
	var (
		rec             settlement.SettlementRecord
		id, employeeID  int64
		computedAt      string
		terminationDate string
		amounts         [9]string
	)

	err := row.Scan(&id, &employeeID, &computedAt, &terminationDate, &rec.DaysOfRelationship,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&amounts[5], &amounts[6], &amounts[7], &amounts[8])
	if err != nil {
		return settlement.SettlementRecord{}, err
	}

	rec.ID = settlement.SettlementID(id)
	rec.EmployeeID = settlement.EmployeeID(employeeID)

	if rec.ComputedAt, err = time.Parse(time.RFC3339, computedAt); err != nil {
		return settlement.SettlementRecord{}, fmt.Errorf("bad computed_at %q: %w", computedAt, err)
	}
	if rec.TerminationDate, err = time.Parse(dateLayout, terminationDate); err != nil {
		return settlement.SettlementRecord{}, fmt.Errorf("bad termination_date %q: %w", terminationDate, err)
	}

	fields := []*decimal.Decimal{
		&rec.AccruedSalary, &rec.Severance, &rec.VacationBase, &rec.VacationPremium,
		&rec.VacationTotal, &rec.AnnualBonus, &rec.MidYearBonus,
		&rec.EconomicAdvantages, &rec.Total,
	}
	for i, f := range fields {
		if *f, err = decimal.NewFromString(amounts[i]); err != nil {
			return settlement.SettlementRecord{}, fmt.Errorf("bad amount %q: %w", amounts[i], err)
		}
	}
	return rec, nil
}

func nullOptional(o settlement.OptionalAmount) any {
	if !o.Valid {
		return nil
	}
	return o.Value.String()
}

func optionalFromNull(ns sql.NullString) (settlement.OptionalAmount, error) {
	if !ns.Valid {
		return settlement.None(), nil
	}
	v, err := decimal.NewFromString(ns.String)
	if err != nil {
		return settlement.OptionalAmount{}, err
	}
	return settlement.Some(v), nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
