package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestAPI_ListScenarios(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	scenarios := body["scenarios"].([]any)
	assert.Len(t, scenarios, 3)
	assert.Equal(t, "", body["current"])
}

func TestAPI_LoadUnknownScenario400(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_LoadQuietWeek(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "quiet-week"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/units", nil)
	units := decode[[]map[string]any](t, rec)
	assert.Len(t, units, 2)

	rec = ts.do(t, http.MethodGet, "/api/reservations", nil)
	reservations := decode[[]map[string]any](t, rec)
	require.Len(t, reservations, 1)
	assert.Equal(t, "confirmed", reservations[0]["status"])
	assert.Equal(t, "partially_paid", reservations[0]["payment_status"])

	// The loaded scenario is reported as current
	rec = ts.do(t, http.MethodGet, "/api/scenarios", nil)
	assert.Equal(t, "quiet-week", decode[map[string]any](t, rec)["current"])
}

func TestAPI_LoadBusySeason_BackToBackStays(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "busy-season"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/reservations?unit_id=bng-1", nil)
	reservations := decode[[]map[string]any](t, rec)
	require.Len(t, reservations, 3)

	// Sorted by check-in: each checkout day equals the next check-in day.
	for i := 0; i < len(reservations)-1; i++ {
		assert.Equal(t, reservations[i]["check_out"], reservations[i+1]["check_in"],
			"stays are back-to-back")
	}
}

func TestAPI_LoadArrears(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "arrears"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/reservations", nil)
	reservations := decode[[]map[string]any](t, rec)
	require.Len(t, reservations, 2)

	byStatus := map[string]int{}
	for _, r := range reservations {
		byStatus[r["payment_status"].(string)]++
	}
	assert.Equal(t, 1, byStatus["partially_paid"])
	assert.Equal(t, 1, byStatus["unpaid"])
}

func TestAPI_LoadingReplacesPreviousScenario(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "busy-season"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "quiet-week"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/reservations", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1, "previous scenario data is gone")
}

func TestAPI_Reset(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load",
		map[string]any{"scenario_id": "quiet-week"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/units", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/scenarios", nil)
	assert.Equal(t, "", decode[map[string]any](t, rec)["current"])
}
