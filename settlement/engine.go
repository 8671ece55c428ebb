/*
engine.go - The computation request handler

PURPOSE:
  Engine.Calculate is the single mutating operation of the system. Given an
  employee id and a termination date it resolves the compensation profile,
  validates it, computes the day count, runs every benefit formula, and
  appends exactly one SettlementRecord to the ledger.

CONTRACT:
  (a) unknown employee            -> ErrEmployeeNotFound
  (b) termination not after hire  -> InvalidInputError
  (c) days = whole-day span between hire and termination
  (d) all four formulas run on the resolved salary components
  (e) a new unique id and a computation timestamp are assigned at assembly
  (f) the complete record is returned

  On success the ledger grows by exactly one record; on any failure path it
  grows by zero. Validation is a hard precondition: the formulas never see
  an invalid profile.

SEE ALSO:
  - benefit: the pure formulas
  - ledger.go: Ledger and Sequence contracts
*/
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quetzal-hr/prestaciones-engine/benefit"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// ProfileSource resolves compensation profiles. Employee management owns the
// records; the engine only reads them.
type ProfileSource interface {
	// Profile returns the employee's profile or ErrEmployeeNotFound.
	Profile(ctx context.Context, id EmployeeID) (CompensationProfile, error)
}

// AdvantageSource supplies the externally-computed economic advantages
// component. This engine does not own its formula; the value is passed
// through into the record opaquely.
type AdvantageSource interface {
	EconomicAdvantages(ctx context.Context, id EmployeeID, days int) (decimal.Decimal, error)
}

// ZeroAdvantages is the default AdvantageSource: no external component.
type ZeroAdvantages struct{}

func (ZeroAdvantages) EconomicAdvantages(context.Context, EmployeeID, int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine orchestrates settlement computations. All dependencies are
// injected; the engine itself holds no mutable state.
type Engine struct {
	Profiles   ProfileSource
	Ledger     Ledger
	Seq        Sequence
	Advantages AdvantageSource
	Now        func() time.Time
}

// NewEngine wires an engine with sensible defaults: zero economic
// advantages and the wall clock.
func NewEngine(profiles ProfileSource, ledger Ledger, seq Sequence) *Engine {
	return &Engine{
		Profiles:   profiles,
		Ledger:     ledger,
		Seq:        seq,
		Advantages: ZeroAdvantages{},
		Now:        time.Now,
	}
}

// Calculate computes and records the settlement for one employee terminated
// on the given date. See the file header for the full contract.
func (e *Engine) Calculate(ctx context.Context, id EmployeeID, terminationDate time.Time) (SettlementRecord, error) {
	profile, err := e.Profiles.Profile(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return SettlementRecord{}, err
		}
		return SettlementRecord{}, &StorageError{Op: "load profile", Err: err}
	}

	if !profile.BaseSalary.IsPositive() {
		return SettlementRecord{}, &InvalidInputError{Field: "base_salary", Reason: "must be greater than zero"}
	}
	if terminationDate.IsZero() {
		return SettlementRecord{}, &InvalidInputError{Field: "termination_date", Reason: "required"}
	}
	if !terminationDate.After(profile.HireDate) {
		return SettlementRecord{}, &InvalidInputError{Field: "termination_date", Reason: "must be after hire date"}
	}

	days := benefit.DaysOfRelationship(profile.HireDate, terminationDate)

	vacation := benefit.Vacation(profile.BaseSalary, days)
	accrued := benefit.AccruedSalary(
		profile.BaseSalary,
		profile.AvgCommissions.OrZero(),
		profile.IncentiveBonus.OrZero(),
	)

	advantages, err := e.Advantages.EconomicAdvantages(ctx, id, days)
	if err != nil {
		return SettlementRecord{}, &StorageError{Op: "resolve economic advantages", Err: err}
	}

	settlementID, err := e.Seq.Next(ctx)
	if err != nil {
		return SettlementRecord{}, &StorageError{Op: "assign settlement id", Err: err}
	}

	rec := SettlementRecord{
		ID:                 settlementID,
		EmployeeID:         id,
		ComputedAt:         e.Now().UTC(),
		TerminationDate:    terminationDate,
		DaysOfRelationship: days,
		AccruedSalary:      accrued,
		Severance:          benefit.Severance(profile.BaseSalary, days),
		VacationBase:       vacation.Base,
		VacationPremium:    vacation.Premium,
		VacationTotal:      vacation.Total,
		AnnualBonus:        benefit.AnnualBonus(profile.BaseSalary, days),
		MidYearBonus:       benefit.MidYearBonus(profile.BaseSalary, days),
		EconomicAdvantages: advantages,
	}
	rec.Total = rec.SumComponents()

	if err := e.Ledger.Append(ctx, rec); err != nil {
		return SettlementRecord{}, &StorageError{Op: "append settlement", Err: err}
	}
	return rec, nil
}
