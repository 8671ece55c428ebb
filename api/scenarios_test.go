package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScenario(t *testing.T, srv *httptest.Server, id string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
}

func TestListScenarios(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scenarios")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[[]ScenarioDTO](t, resp)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.ElementsMatch(t, []string{"empty", "sample-employees", "settled-history"}, ids)
}

func TestLoadScenario_SampleEmployees(t *testing.T) {
	srv := newTestServer(t)

	resp := loadScenario(t, srv, "sample-employees")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	empResp, err := http.Get(srv.URL + "/api/employees")
	require.NoError(t, err)
	employees := decode[[]EmployeeDTO](t, empResp)
	require.Len(t, employees, 3)

	// One of the three is already terminated.
	var inactive int
	for _, e := range employees {
		if e.Status == "INACTIVE" {
			inactive++
			assert.NotNil(t, e.TerminationDate)
		}
	}
	assert.Equal(t, 1, inactive)
}

func TestLoadScenario_SettledHistory(t *testing.T) {
	srv := newTestServer(t)

	resp := loadScenario(t, srv, "settled-history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	histResp, err := http.Get(srv.URL + "/api/settlements/history")
	require.NoError(t, err)
	records := decode[[]SettlementDTO](t, histResp)
	require.Len(t, records, 3)

	// María was settled twice; the recomputation with the corrected date is a
	// separate ledger entry.
	byEmpResp, err := http.Get(srv.URL + "/api/settlements/history/2")
	require.NoError(t, err)
	maria := decode[[]SettlementDTO](t, byEmpResp)
	require.Len(t, maria, 2)
	assert.NotEqual(t, maria[0].SettlementID, maria[1].SettlementID)
	assert.NotEqual(t, maria[0].TerminationDate, maria[1].TerminationDate)
}

func TestLoadScenario_ResetsPreviousState(t *testing.T) {
	srv := newTestServer(t)

	resp := loadScenario(t, srv, "settled-history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = loadScenario(t, srv, "empty")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	empResp, err := http.Get(srv.URL + "/api/employees")
	require.NoError(t, err)
	employees := decode[[]EmployeeDTO](t, empResp)
	assert.Empty(t, employees)

	histResp, err := http.Get(srv.URL + "/api/settlements/history")
	require.NoError(t, err)
	records := decode[[]SettlementDTO](t, histResp)
	assert.Empty(t, records)
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv := newTestServer(t)

	resp := loadScenario(t, srv, "nonexistent")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCurrentScenario(t *testing.T) {
	srv := newTestServer(t)

	resp := loadScenario(t, srv, "sample-employees")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	curResp, err := http.Get(srv.URL + "/api/scenarios/current")
	require.NoError(t, err)
	got := decode[ScenarioDTO](t, curResp)
	assert.Equal(t, "sample-employees", got.ID)
}
