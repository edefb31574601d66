package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forecastBody struct {
	Forecast map[string]struct {
		ForecastedRevenue float64  `json:"forecasted_revenue"`
		Deals             []string `json:"deals"`
		Quarter           string   `json:"quarter"`
	} `json:"forecast"`
	Message string `json:"message"`
}

func TestForecastEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/analytics/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[forecastBody](t, w)
	assert.NotEmpty(t, empty.Message)
	assert.Len(t, empty.Forecast, 4)

	july := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/deals", dealJSON("F-1", "rail", "proposal", 10000, 50, july)).Code)

	w = s.do(http.MethodGet, "/api/analytics/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[forecastBody](t, w)
	assert.Empty(t, body.Message)
	assert.Equal(t, 5000.0, body.Forecast["2025-07"].ForecastedRevenue)
	assert.Equal(t, []string{"F-1"}, body.Forecast["2025-07"].Deals)
	assert.Equal(t, "2025-Q3", body.Forecast["2025-07"].Quarter)
	assert.Equal(t, 0.0, body.Forecast["2025-06"].ForecastedRevenue)

	w = s.do(http.MethodGet, "/api/analytics/forecast?horizon=3m", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[forecastBody](t, w).Forecast, 3)

	w = s.do(http.MethodGet, "/api/analytics/forecast?horizon=year", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastWinRateSwitch(t *testing.T) {
	s := newTestServer(t)
	july := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	lost := dealJSON("L-1", "rail", "closed_lost", 100, 0, testNow.AddDate(0, -1, 0))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/deals", lost).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/deals", dealJSON("F-1", "rail", "proposal", 10000, 50, july)).Code)

	w := s.do(http.MethodGet, "/api/analytics/forecast", nil)
	assert.Equal(t, 0.0, decode[forecastBody](t, w).Forecast["2025-07"].ForecastedRevenue)

	w = s.do(http.MethodGet, "/api/analytics/forecast?win_rate=false", nil)
	assert.Equal(t, 5000.0, decode[forecastBody](t, w).Forecast["2025-07"].ForecastedRevenue)

	w = s.do(http.MethodPut, "/api/settings/switches/forecast_win_rate", map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/analytics/forecast", nil)
	assert.Equal(t, 5000.0, decode[forecastBody](t, w).Forecast["2025-07"].ForecastedRevenue)
}

func TestDashboardAndDrilldown(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/seed", nil).Code)

	w := s.do(http.MethodGet, "/api/analytics/forecast/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	months := decode[[]struct {
		Month      string  `json:"month"`
		MonthLabel string  `json:"month_label"`
		AlreadyWon float64 `json:"already_won"`
	}](t, w)
	require.Len(t, months, 3)
	assert.Equal(t, "2025-06", months[0].Month)
	assert.Equal(t, "June 2025", months[0].MonthLabel)
	assert.Equal(t, 50000.0, months[0].AlreadyWon)

	w = s.do(http.MethodGet, "/api/analytics/forecast/drilldown?month=2025-06&type=won", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deals := decode[[]struct {
		DealID string `json:"deal_id"`
	}](t, w)
	require.Len(t, deals, 1)
	assert.Equal(t, "D-003", deals[0].DealID)

	w = s.do(http.MethodGet, "/api/analytics/forecast/drilldown?month=06-2025", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastExportXLSX(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/analytics/forecast/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "forecast-2025-06-18.xlsx")
	// xlsx files are zip archives.
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestForecastRevenueRoundedOnTheWire(t *testing.T) {
	s := newTestServer(t)
	closedAt := testNow.AddDate(0, -1, 0)
	for i, stage := range []string{"closed_won", "closed_lost", "closed_lost"} {
		body := dealJSON("H-"+string(rune('1'+i)), "rail", stage, 1000, 100, closedAt)
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/deals", body).Code)
	}
	aug := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"R-1", "R-2", "R-3"} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/deals", dealJSON(id, "rail", "proposal", 100000, 100, aug)).Code)
	}

	w := s.do(http.MethodGet, "/api/analytics/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"2025-08":{"forecasted_revenue":100000,"deals"`)
}
