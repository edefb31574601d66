package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepCRUD(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/reps", map[string]any{"name": "Dana"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}](t, w)
	assert.Equal(t, "Dana", created.Name)
	assert.NotZero(t, created.ID)

	w = s.do(http.MethodGet, "/api/reps?id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/reps?id=77", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decode[map[string]string](t, w)["error"])

	w = s.do(http.MethodDelete, "/api/reps", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing id", decode[map[string]string](t, w)["error"])

	w = s.do(http.MethodDelete, "/api/reps?id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["success"])

	w = s.do(http.MethodGet, "/api/reps", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = s.do(http.MethodPost, "/api/reps", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type territoryBody struct {
	ID                 uint64   `json:"id"`
	Name               string   `json:"name"`
	Region             string   `json:"region"`
	AssignedReps       []uint64 `json:"assigned_reps"`
	PerformanceMetrics struct {
		TotalDeals int     `json:"total_deals"`
		WonDeals   int     `json:"won_deals"`
		Revenue    float64 `json:"revenue"`
	} `json:"performance_metrics"`
}

func TestTerritoriesWithMetricsAndFilters(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/seed", nil).Code)

	w := s.do(http.MethodGet, "/api/territories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]territoryBody](t, w)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].PerformanceMetrics.TotalDeals)
	assert.Equal(t, 1, all[1].PerformanceMetrics.WonDeals)
	assert.Equal(t, 50000.0, all[1].PerformanceMetrics.Revenue)

	w = s.do(http.MethodGet, "/api/territories?region=NY", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ny := decode[[]territoryBody](t, w)
	require.Len(t, ny, 1)
	assert.Equal(t, "East", ny[0].Name)

	w = s.do(http.MethodGet, "/api/territories?rep=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	byRep := decode[[]territoryBody](t, w)
	require.Len(t, byRep, 1)
	assert.Equal(t, "West", byRep[0].Name)

	w = s.do(http.MethodGet, "/api/territories?id=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "East", decode[territoryBody](t, w).Name)

	w = s.do(http.MethodPost, "/api/territories", map[string]any{"name": "South", "region": "TX", "assigned_reps": []int{1}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint64(3), decode[territoryBody](t, w).ID)

	w = s.do(http.MethodDelete, "/api/territories?id=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSalesRepsRosterAndTerritoryMove(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/seed", nil).Code)

	w := s.do(http.MethodGet, "/api/sales-reps", nil)
	require.Equal(t, http.StatusOK, w.Code)
	roster := decode[[]struct {
		ID            uint64 `json:"id"`
		FirstName     string `json:"first_name"`
		Email         string `json:"email"`
		AmountOfDeals int    `json:"amount_of_deals"`
		Territory     string `json:"territory"`
	}](t, w)
	require.Len(t, roster, 3)
	assert.Equal(t, "Alice", roster[0].FirstName)
	assert.Equal(t, "alice@company.com", roster[0].Email)
	assert.Equal(t, 1, roster[0].AmountOfDeals)
	assert.Equal(t, "CA", roster[0].Territory)

	w = s.do(http.MethodPut, "/api/sales-reps/update-territories", map[string]any{"salesRepIds": []uint64{roster[0].ID}, "newTerritory": "OR"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "newTerritory must be one of: CA, NY, TX, FL", decode[map[string]string](t, w)["error"])

	w = s.do(http.MethodPut, "/api/sales-reps/update-territories", map[string]any{"salesRepIds": []uint64{roster[0].ID}, "newTerritory": "FL"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Message          string `json:"message"`
		UpdatedSalesReps []struct {
			Territory string `json:"territory"`
		} `json:"updatedSalesReps"`
	}](t, w)
	assert.Equal(t, "Successfully updated 1 sales representatives to territory FL", res.Message)
	require.Len(t, res.UpdatedSalesReps, 1)
	assert.Equal(t, "FL", res.UpdatedSalesReps[0].Territory)
}

func TestSeedSwitchAndHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/settings/switches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 3)

	w = s.do(http.MethodPut, "/api/settings/switches/seed", map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/settings/switches/seed", nil)
	assert.Equal(t, false, decode[map[string]any](t, w)["enabled"])

	w = s.do(http.MethodPost, "/api/seed", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/settings/switches/seed", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodOptions, "/api/deals", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
