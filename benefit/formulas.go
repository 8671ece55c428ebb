/*
Package benefit implements the statutory benefit formulas used to settle an
employment relationship.

PURPOSE:
  This package contains the pure calculation rules for the four statutory
  benefits owed at termination (vacation compensation, Aguinaldo, Bono14,
  Indemnización) plus the accrued-salary reference figure. Every function is
  a total function over its numeric inputs: no state, no I/O, no failure
  modes. Validation of inputs belongs to the settlement engine, not here.

KEY CONCEPTS IN THIS FILE (formulas.go):
  - VacationBreakdown: base compensation, non-enjoyment premium, and total
  - AnnualBonus / MidYearBonus: proportional year-end and mid-year bonuses
  - Severance: one month of salary per year of service, fractional years kept
  - Kind + Evaluate: dispatcher for the stateless what-if calculator

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal throughout; no float arithmetic
  2. Rounding discipline: currency rounding happens ONLY at formula outputs,
     never between intermediate steps
  3. Statutory identity: Aguinaldo and Bono14 share arithmetic today but stay
     separate named operations, since the underlying statutes can diverge

USAGE:
  days := benefit.DaysOfRelationship(hire, termination)
  v := benefit.Vacation(salary, days)
  aguinaldo := benefit.AnnualBonus(salary, days)

SEE ALSO:
  - calendar.go: day-count convention
  - settlement/engine.go: the only caller with side effects
*/
package benefit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUTORY CONSTANTS
// =============================================================================

// Day-count conventions fixed by the labor code: a month is 30 days for
// daily-salary purposes and a year is 365 days for proration.
var (
	daysPerMonth        = decimal.NewFromInt(30)
	daysPerYear         = decimal.NewFromInt(365)
	vacationDaysPerYear = decimal.NewFromInt(15)
	premiumRate         = decimal.RequireFromString("0.5")
)

// round applies currency rounding (banker's, 2 fractional digits).
// Called only at output boundaries.
func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// =============================================================================
// VACATION COMPENSATION
// =============================================================================

// VacationBreakdown surfaces every component of the vacation calculation.
// The ledger and the historical view expose base, premium, and total
// separately, so all three are first-class outputs.
type VacationBreakdown struct {
	ProportionalDays decimal.Decimal // entitlement earned, in days
	DailySalary      decimal.Decimal
	Base             decimal.Decimal // daily salary × proportional days
	Premium          decimal.Decimal // 50% non-enjoyment premium
	Total            decimal.Decimal // base + premium
}

// Vacation computes compensation for unused vacation entitlement.
// Annual entitlement is 15 days; the proportional share is days/365 of that.
// A statutory 50% premium compensates for vacation not actually enjoyed.
func Vacation(baseSalary decimal.Decimal, days int) VacationBreakdown {
	d := decimal.NewFromInt(int64(days))
	proportional := vacationDaysPerYear.Mul(d).Div(daysPerYear)
	daily := baseSalary.Div(daysPerMonth)

	base := round(daily.Mul(proportional))
	premium := round(base.Mul(premiumRate))

	return VacationBreakdown{
		ProportionalDays: proportional.Round(2),
		DailySalary:      round(daily),
		Base:             base,
		Premium:          premium,
		Total:            base.Add(premium),
	}
}

// =============================================================================
// PROPORTIONAL BONUSES
// =============================================================================

// AnnualBonus computes the Aguinaldo: salary × days / 365.
func AnnualBonus(baseSalary decimal.Decimal, days int) decimal.Decimal {
	return round(baseSalary.Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear))
}

// MidYearBonus computes the Bono14: salary × days / 365.
//
// Identical arithmetic to AnnualBonus today. Kept as its own operation
// because the two benefits rest on different decrees and either formula
// could change independently.
func MidYearBonus(baseSalary decimal.Decimal, days int) decimal.Decimal {
	return round(baseSalary.Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear))
}

// =============================================================================
// SEVERANCE
// =============================================================================

// Severance computes the Indemnización: one month of salary per year of
// service, with years of service as a real number (days/365), not rounded
// to whole years.
func Severance(baseSalary decimal.Decimal, days int) decimal.Decimal {
	return round(baseSalary.Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear))
}

// =============================================================================
// ACCRUED-SALARY BASELINE
// =============================================================================

// AccruedSalary is the reference earnings figure reported alongside a
// settlement: base salary plus average commissions plus incentive bonus.
// It is NOT part of the total-to-pay.
func AccruedSalary(baseSalary, avgCommissions, incentiveBonus decimal.Decimal) decimal.Decimal {
	return round(baseSalary.Add(avgCommissions).Add(incentiveBonus))
}

// =============================================================================
// WHAT-IF DISPATCHER
// =============================================================================

// Kind identifies a benefit formula for stateless evaluation.
type Kind string

const (
	KindVacation     Kind = "vacation"
	KindAnnualBonus  Kind = "annual_bonus"
	KindMidYearBonus Kind = "mid_year_bonus"
	KindSeverance    Kind = "severance"
)

// Kinds lists every evaluable formula, in display order.
func Kinds() []Kind {
	return []Kind{KindVacation, KindAnnualBonus, KindMidYearBonus, KindSeverance}
}

// Evaluate runs a single formula without touching any ledger. The manual
// calculator calls this directly. For KindVacation the returned amount is
// the vacation total (base + premium).
func Evaluate(kind Kind, baseSalary decimal.Decimal, days int) (decimal.Decimal, error) {
	switch kind {
	case KindVacation:
		return Vacation(baseSalary, days).Total, nil
	case KindAnnualBonus:
		return AnnualBonus(baseSalary, days), nil
	case KindMidYearBonus:
		return MidYearBonus(baseSalary, days), nil
	case KindSeverance:
		return Severance(baseSalary, days), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown benefit kind %q", kind)
	}
}
