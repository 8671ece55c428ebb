/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields are decimal.Decimal, which marshals as an exact JSON
  number. Optional fields are pointers; absent means "not provided", which
  the formulas resolve to zero.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quetzal-hr/prestaciones-engine/settlement"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents a compensation profile in API responses.
type EmployeeDTO struct {
	ID              int64            `json:"id"`
	NationalID      string           `json:"national_id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	AvgCommissions  *decimal.Decimal `json:"avg_commissions,omitempty"`
	IncentiveBonus  *decimal.Decimal `json:"incentive_bonus,omitempty"`
	HireDate        string           `json:"hire_date"`
	TerminationDate *string          `json:"termination_date,omitempty"`
	Status          string           `json:"status"`
}

// CreateEmployeeRequest is the request to register an employee. The id is
// assigned by the store.
type CreateEmployeeRequest struct {
	NationalID     string           `json:"national_id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	BaseSalary     decimal.Decimal  `json:"base_salary"`
	AvgCommissions *decimal.Decimal `json:"avg_commissions,omitempty"`
	IncentiveBonus *decimal.Decimal `json:"incentive_bonus,omitempty"`
	HireDate       string           `json:"hire_date"`
}

// UpdateEmployeeRequest replaces a profile wholesale, including termination
// date and status.
type UpdateEmployeeRequest struct {
	NationalID      string           `json:"national_id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	AvgCommissions  *decimal.Decimal `json:"avg_commissions,omitempty"`
	IncentiveBonus  *decimal.Decimal `json:"incentive_bonus,omitempty"`
	HireDate        string           `json:"hire_date"`
	TerminationDate *string          `json:"termination_date,omitempty"`
	Status          string           `json:"status"`
}

// =============================================================================
// SETTLEMENT TYPES
// =============================================================================

// CalculateSettlementRequest triggers one settlement computation.
type CalculateSettlementRequest struct {
	EmployeeID      int64  `json:"employee_id"`
	TerminationDate string `json:"termination_date"`
}

// SettlementDTO represents one settlement record. EmployeeName is filled in
// on historical views when the profile still exists.
type SettlementDTO struct {
	SettlementID       int64           `json:"settlement_id"`
	EmployeeID         int64           `json:"employee_id"`
	EmployeeName       string          `json:"employee_name,omitempty"`
	ComputedAt         string          `json:"computed_at"`
	TerminationDate    string          `json:"termination_date"`
	DaysOfRelationship int             `json:"days_of_relationship"`
	AccruedSalary      decimal.Decimal `json:"accrued_salary"`
	Severance          decimal.Decimal `json:"severance"`
	VacationBase       decimal.Decimal `json:"vacation_base"`
	VacationPremium    decimal.Decimal `json:"vacation_premium"`
	VacationTotal      decimal.Decimal `json:"vacation_total"`
	AnnualBonus        decimal.Decimal `json:"annual_bonus"`
	MidYearBonus       decimal.Decimal `json:"mid_year_bonus"`
	EconomicAdvantages decimal.Decimal `json:"economic_advantages"`
	Total              decimal.Decimal `json:"total"`
}

// =============================================================================
// CALCULATOR TYPES
// =============================================================================

// EvaluateFormulaRequest is a stateless what-if evaluation. Nothing is
// written to the ledger.
type EvaluateFormulaRequest struct {
	Kind       string          `json:"kind"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	Days       int             `json:"days"`
}

// EvaluateFormulaResponse echoes the inputs with the computed amount.
type EvaluateFormulaResponse struct {
	Kind       string          `json:"kind"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	Days       int             `json:"days"`
	Amount     decimal.Decimal `json:"amount"`
}

// =============================================================================
// MISC TYPES
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(p settlement.CompensationProfile) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         int64(p.EmployeeID),
		NationalID: p.NationalID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		BaseSalary: p.BaseSalary,
		HireDate:   p.HireDate.Format("2006-01-02"),
		Status:     string(p.Status),
	}
	if p.AvgCommissions.Valid {
		v := p.AvgCommissions.Value
		dto.AvgCommissions = &v
	}
	if p.IncentiveBonus.Valid {
		v := p.IncentiveBonus.Value
		dto.IncentiveBonus = &v
	}
	if p.TerminationDate != nil {
		d := p.TerminationDate.Format("2006-01-02")
		dto.TerminationDate = &d
	}
	return dto
}

func toSettlementDTO(rec settlement.SettlementRecord, employeeName string) SettlementDTO {
	return SettlementDTO{
		SettlementID:       int64(rec.ID),
		EmployeeID:         int64(rec.EmployeeID),
		EmployeeName:       employeeName,
		ComputedAt:         rec.ComputedAt.UTC().Format(time.RFC3339),
		TerminationDate:    rec.TerminationDate.Format("2006-01-02"),
		DaysOfRelationship: rec.DaysOfRelationship,
		AccruedSalary:      rec.AccruedSalary,
		Severance:          rec.Severance,
		VacationBase:       rec.VacationBase,
		VacationPremium:    rec.VacationPremium,
		VacationTotal:      rec.VacationTotal,
		AnnualBonus:        rec.AnnualBonus,
		MidYearBonus:       rec.MidYearBonus,
		EconomicAdvantages: rec.EconomicAdvantages,
		Total:              rec.Total,
	}
}
