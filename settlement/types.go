/*
Package settlement computes and records end-of-employment settlements.

PURPOSE:
  This package wraps the pure benefit formulas with the one operation that
  has side effects: resolving an employee's compensation profile, validating
  it, running every formula, and appending the resulting SettlementRecord to
  an append-only ledger. It also defines the historical query surface.

KEY CONCEPTS IN THIS FILE (types.go):
  - CompensationProfile: the benefit-relevant attributes of an employee
  - OptionalAmount: an explicitly present/absent monetary field
  - EmployeeID / SettlementID: type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: settlement records are appended, never edited; a
     correction is a new record
  2. Explicit absence: optional compensation components are a present/absent
     pair resolved to zero at the formula boundary, not a null threaded
     through arithmetic
  3. Read-only profiles: the engine consumes profiles, employee management
     owns them

SEE ALSO:
  - engine.go: the computation request handler
  - ledger.go: append-only record store contract
  - record.go: the immutable result of one computation
*/
package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID is the stable, positive identifier of an employee.
type EmployeeID int64

// SettlementID is monotonically assigned, unique, and never reused.
type SettlementID int64

// =============================================================================
// EMPLOYMENT STATUS
// =============================================================================

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// =============================================================================
// OPTIONAL AMOUNT - explicitly present or absent
// =============================================================================

// OptionalAmount is a monetary field that may be absent. Absent resolves to
// zero exactly once, at the formula boundary, via OrZero.
type OptionalAmount struct {
	Value decimal.Decimal
	Valid bool
}

// Some wraps a present amount.
func Some(v decimal.Decimal) OptionalAmount {
	return OptionalAmount{Value: v, Valid: true}
}

// None is the absent amount.
func None() OptionalAmount {
	return OptionalAmount{}
}

// OrZero resolves the field for arithmetic: the value when present, zero
// otherwise.
func (o OptionalAmount) OrZero() decimal.Decimal {
	if !o.Valid {
		return decimal.Zero
	}
	return o.Value
}

// =============================================================================
// COMPENSATION PROFILE
// =============================================================================

// CompensationProfile carries the benefit-relevant attributes of one
// employee. The engine reads it; employee management mutates it.
type CompensationProfile struct {
	EmployeeID EmployeeID
	NationalID string // DPI
	FirstName  string
	LastName   string

	BaseSalary      decimal.Decimal
	AvgCommissions  OptionalAmount
	IncentiveBonus  OptionalAmount
	HireDate        time.Time
	TerminationDate *time.Time // nil while employed
	Status          Status
}

// FullName returns the display name used by the historical view.
func (p CompensationProfile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Validate checks the profile invariants:
//   - base salary must be positive (a zero or negative salary is numerically
//     computable but never a valid profile)
//   - a termination date, when present, must be strictly after the hire date
//   - INACTIVE status requires a termination date
//
// The converse (termination date implies INACTIVE) is deliberately NOT
// enforced: an active employee may carry a scheduled termination date.
func (p CompensationProfile) Validate() error {
	if p.EmployeeID <= 0 {
		return &InvalidInputError{Field: "employee_id", Reason: "must be positive"}
	}
	if !p.BaseSalary.IsPositive() {
		return &InvalidInputError{Field: "base_salary", Reason: "must be greater than zero"}
	}
	if p.AvgCommissions.Valid && p.AvgCommissions.Value.IsNegative() {
		return &InvalidInputError{Field: "avg_commissions", Reason: "must not be negative"}
	}
	if p.IncentiveBonus.Valid && p.IncentiveBonus.Value.IsNegative() {
		return &InvalidInputError{Field: "incentive_bonus", Reason: "must not be negative"}
	}
	if p.HireDate.IsZero() {
		return &InvalidInputError{Field: "hire_date", Reason: "required"}
	}
	if p.TerminationDate != nil && !p.TerminationDate.After(p.HireDate) {
		return &InvalidInputError{Field: "termination_date", Reason: "must be after hire date"}
	}
	if p.Status == StatusInactive && p.TerminationDate == nil {
		return &InvalidInputError{Field: "termination_date", Reason: "required for INACTIVE status"}
	}
	return nil
}
