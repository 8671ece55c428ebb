/*
handlers.go - HTTP API handlers for the settlement service

PURPOSE:
  Exposes the settlement engine and the employee registry via REST. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Health:
    GET    /api/health/db                 Database connectivity probe

  Employees:
    GET    /api/employees                 List profiles (?active=true)
    POST   /api/employees                 Register a profile
    GET    /api/employees/{id}            Get one profile
    PUT    /api/employees/{id}            Replace a profile
    DELETE /api/employees/{id}            Remove a profile

  Settlements:
    POST   /api/settlements/calculate     Compute + record a settlement
    GET    /api/settlements/history       All records, newest first
    GET    /api/settlements/history/{id}  One employee's records

  Calculator:
    POST   /api/calculator/evaluate       Stateless what-if evaluation
    GET    /api/calculator/kinds          List evaluable formulas

  Scenarios:
    GET    /api/scenarios                 List demo scenarios
    POST   /api/scenarios/load            Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input (bad body, termination date not after hire date)
  - 404: unknown employee
  - 500: storage failures (safe to retry; nothing partial is written)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - settlement/engine.go: The computation contract
*/
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/quetzal-hr/prestaciones-engine/benefit"
	"github.com/quetzal-hr/prestaciones-engine/settlement"
	"github.com/quetzal-hr/prestaciones-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *settlement.Engine

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler; the store serves as profile source, ledger,
// and settlement id sequence.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: settlement.NewEngine(store, store, store),
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthDB reports database connectivity.
func (h *Handler) HealthDB(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Database unreachable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all profiles; ?active=true filters to ACTIVE.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	profiles, err := h.Store.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toEmployeeDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single profile.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.Store.Profile(r.Context(), id)
	if err != nil {
		if settlement.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(p))
}

// CreateEmployee registers a new profile; the store assigns the id.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "first_name and last_name are required", nil)
		return
	}
	if !req.BaseSalary.IsPositive() {
		writeError(w, http.StatusBadRequest, "base_salary must be greater than zero", nil)
		return
	}
	if req.AvgCommissions != nil && req.AvgCommissions.IsNegative() {
		writeError(w, http.StatusBadRequest, "avg_commissions must not be negative", nil)
		return
	}
	if req.IncentiveBonus != nil && req.IncentiveBonus.IsNegative() {
		writeError(w, http.StatusBadRequest, "incentive_bonus must not be negative", nil)
		return
	}

	p := settlement.CompensationProfile{
		NationalID:     req.NationalID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BaseSalary:     req.BaseSalary,
		AvgCommissions: optionalFromPtr(req.AvgCommissions),
		IncentiveBonus: optionalFromPtr(req.IncentiveBonus),
		HireDate:       hireDate,
		Status:         settlement.StatusActive,
	}

	created, err := h.Store.CreateEmployee(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(created))
}

// UpdateEmployee replaces a profile wholesale. This is the path that sets a
// termination date and flips status to INACTIVE ahead of a settlement.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	p := settlement.CompensationProfile{
		EmployeeID:     id,
		NationalID:     req.NationalID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BaseSalary:     req.BaseSalary,
		AvgCommissions: optionalFromPtr(req.AvgCommissions),
		IncentiveBonus: optionalFromPtr(req.IncentiveBonus),
		HireDate:       hireDate,
		Status:         settlement.Status(req.Status),
	}
	if req.TerminationDate != nil {
		t, err := time.Parse("2006-01-02", *req.TerminationDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid termination_date format (use YYYY-MM-DD)", err)
			return
		}
		p.TerminationDate = &t
	}
	if p.Status != settlement.StatusActive && p.Status != settlement.StatusInactive {
		writeError(w, http.StatusBadRequest, "status must be ACTIVE or INACTIVE", nil)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile", err)
		return
	}

	if err := h.Store.UpdateEmployee(r.Context(), p); err != nil {
		if settlement.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(p))
}

// DeleteEmployee removes a profile. Settlement history for the employee is
// retained.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if settlement.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTLEMENT HANDLERS
// =============================================================================

// CalculateSettlement computes and records one settlement.
func (h *Handler) CalculateSettlement(w http.ResponseWriter, r *http.Request) {
	var req CalculateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terminationDate, err := time.Parse("2006-01-02", req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination_date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Engine.Calculate(r.Context(), settlement.EmployeeID(req.EmployeeID), terminationDate)
	if err != nil {
		switch {
		case settlement.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Employee not found", nil)
		case settlement.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid settlement input", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to calculate settlement", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toSettlementDTO(rec, h.employeeName(r, rec.EmployeeID)))
}

// History returns every settlement, most recent first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settlements", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toSettlementDTOs(r, records))
}

// HistoryByEmployee returns one employee's settlements, most recent first.
func (h *Handler) HistoryByEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	records, err := h.Store.ListByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settlements", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toSettlementDTOs(r, records))
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// EvaluateFormula runs one formula statelessly; the ledger is never touched.
func (h *Handler) EvaluateFormula(w http.ResponseWriter, r *http.Request) {
	var req EvaluateFormulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if !req.BaseSalary.IsPositive() {
		writeError(w, http.StatusBadRequest, "base_salary must be greater than zero", nil)
		return
	}
	if req.Days < 0 {
		writeError(w, http.StatusBadRequest, "days must not be negative", nil)
		return
	}

	amount, err := benefit.Evaluate(benefit.Kind(req.Kind), req.BaseSalary, req.Days)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown formula kind", err)
		return
	}

	writeJSON(w, http.StatusOK, EvaluateFormulaResponse{
		Kind:       req.Kind,
		BaseSalary: req.BaseSalary,
		Days:       req.Days,
		Amount:     amount,
	})
}

// ListFormulaKinds returns the evaluable formula kinds.
func (h *Handler) ListFormulaKinds(w http.ResponseWriter, r *http.Request) {
	kinds := benefit.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeIDParam(w http.ResponseWriter, r *http.Request) (settlement.EmployeeID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return 0, false
	}
	return settlement.EmployeeID(id), true
}

// employeeName resolves the display name for a settlement row. Deleted
// employees leave the name empty; the record itself is still history.
func (h *Handler) employeeName(r *http.Request, id settlement.EmployeeID) string {
	p, err := h.Store.Profile(r.Context(), id)
	if err != nil {
		return ""
	}
	return p.FullName()
}

func (h *Handler) toSettlementDTOs(r *http.Request, records []settlement.SettlementRecord) []SettlementDTO {
	names := make(map[settlement.EmployeeID]string)
	if profiles, err := h.Store.ListEmployees(r.Context(), false); err == nil {
		for _, p := range profiles {
			names[p.EmployeeID] = p.FullName()
		}
	}

	dtos := make([]SettlementDTO, len(records))
	for i, rec := range records {
		dtos[i] = toSettlementDTO(rec, names[rec.EmployeeID])
	}
	return dtos
}

func optionalFromPtr(v *decimal.Decimal) settlement.OptionalAmount {
	if v == nil {
		return settlement.None()
	}
	return settlement.Some(*v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
