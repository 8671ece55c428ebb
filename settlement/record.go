package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SETTLEMENT RECORD - Immutable result of one computation
// =============================================================================

// SettlementRecord is the historical fact produced by one settlement
// computation: the inputs it consumed and every monetary component it
// produced. Created exactly once per request, never updated or deleted.
// A correction is a new record.
type SettlementRecord struct {
	ID         SettlementID
	EmployeeID EmployeeID

	ComputedAt         time.Time // when the record was assembled
	TerminationDate    time.Time // the termination date used as input
	DaysOfRelationship int

	// Reference figure reported alongside the settlement; not part of Total.
	AccruedSalary decimal.Decimal

	Severance       decimal.Decimal
	VacationBase    decimal.Decimal
	VacationPremium decimal.Decimal
	VacationTotal   decimal.Decimal
	AnnualBonus     decimal.Decimal
	MidYearBonus    decimal.Decimal

	// EconomicAdvantages is computed outside this engine and passed through
	// opaquely. Zero when the external source provides nothing.
	EconomicAdvantages decimal.Decimal

	// Total = Severance + VacationTotal + AnnualBonus + MidYearBonus +
	// EconomicAdvantages.
	Total decimal.Decimal
}

// SumComponents derives the grand total from the payable components.
// AccruedSalary is intentionally excluded.
func (r SettlementRecord) SumComponents() decimal.Decimal {
	return r.Severance.
		Add(r.VacationTotal).
		Add(r.AnnualBonus).
		Add(r.MidYearBonus).
		Add(r.EconomicAdvantages)
}
