/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Pre-built scenarios that populate the database with realistic data for
  demos and manual testing. Each scenario resets the database, registers
  employees, and optionally runs settlement computations through the real
  engine so the history view has content.

AVAILABLE SCENARIOS:
  empty:            Wiped database
  sample-employees: Three employees, one already terminated
  settled-history:  Sample employees plus computed settlements, including a
                    recomputation with a corrected termination date (two
                    ledger entries for the same employee)

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/quetzal-hr/prestaciones-engine/settlement"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "Wiped database, no employees, no history",
	},
	{
		ID:          "sample-employees",
		Name:        "Sample Employees",
		Description: "Three registered employees, one already terminated",
	},
	{
		ID:          "settled-history",
		Name:        "Settled History",
		Description: "Sample employees plus computed settlements, including a recomputation",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.ResetAll(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "empty":
		// Nothing to load
	case "sample-employees":
		_, err = loadSampleEmployees(ctx, h)
	case "settled-history":
		err = loadSettledHistory(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func loadSampleEmployees(ctx context.Context, h *Handler) ([]settlement.CompensationProfile, error) {
	terminated := date(2024, time.October, 31)

	samples := []settlement.CompensationProfile{
		{
			NationalID: "2987654320101",
			FirstName:  "Juan",
			LastName:   "Pérez",
			BaseSalary: decimal.RequireFromString("15000.00"),
			HireDate:   date(2020, time.January, 15),
			Status:     settlement.StatusActive,
		},
		{
			NationalID:      "3012345670101",
			FirstName:       "María",
			LastName:        "González",
			BaseSalary:      decimal.RequireFromString("18000.00"),
			AvgCommissions:  settlement.Some(decimal.RequireFromString("1200.00")),
			HireDate:        date(2019, time.June, 1),
			TerminationDate: &terminated,
			Status:          settlement.StatusInactive,
		},
		{
			NationalID:     "2876543210101",
			FirstName:      "Carlos",
			LastName:       "Rodríguez",
			BaseSalary:     decimal.RequireFromString("20000.00"),
			IncentiveBonus: settlement.Some(decimal.RequireFromString("250.00")),
			HireDate:       date(2021, time.March, 10),
			Status:         settlement.StatusActive,
		},
	}

	created := make([]settlement.CompensationProfile, 0, len(samples))
	for _, p := range samples {
		c, err := h.Store.CreateEmployee(ctx, p)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

func loadSettledHistory(ctx context.Context, h *Handler) error {
	created, err := loadSampleEmployees(ctx, h)
	if err != nil {
		return err
	}

	// María's settlement, then a recomputation with a corrected date: the
	// ledger keeps both entries.
	maria := created[1]
	if _, err := h.Engine.Calculate(ctx, maria.EmployeeID, date(2024, time.October, 15)); err != nil {
		return err
	}
	if _, err := h.Engine.Calculate(ctx, maria.EmployeeID, date(2024, time.October, 31)); err != nil {
		return err
	}

	// A what-if settlement for Carlos, still active.
	carlos := created[2]
	if _, err := h.Engine.Calculate(ctx, carlos.EmployeeID, date(2025, time.March, 10)); err != nil {
		return err
	}
	return nil
}
