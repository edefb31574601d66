package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"salespipeline/internal/config"
	"salespipeline/internal/repository/memory"
	"salespipeline/internal/risk"
	"salespipeline/internal/service"
)

var testNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	flags := &service.SystemSettingsService{Repo: store}
	require.NoError(t, flags.EnsureDefaultSwitches(context.Background()))
	scorer := &risk.Scorer{StalledDays: 21}

	deals := &service.DealService{Repo: store, Scorer: scorer, Now: fixedNow}
	analytics := &service.AnalyticsService{
		Repo:   store,
		Flags:  flags,
		Scorer: scorer,
		Config: config.ForecastConfig{Horizon: "quarter", WinRateWeighting: true, DashboardMonths: 3},
		Now:    fixedNow,
	}

	r := gin.New()
	r.Use(CORSMiddleware(), AccessLogMiddleware(nil))
	(&HealthHandler{Store: store}).Register(r)
	(&DealHandler{Deals: deals, Analytics: analytics, Now: fixedNow}).Register(r)
	(&AnalyticsHandler{Analytics: analytics, Now: fixedNow}).Register(r)
	(&RepHandler{
		Reps:        &service.RepService{Repo: store},
		Territories: &service.TerritoryService{Repo: store, Deals: store},
	}).Register(r)
	(&SalesRepHandler{
		SalesReps: &service.SalesRepService{Repo: store, Deals: store},
		Seed:      &service.SeedService{Repo: store, Flags: flags, Now: fixedNow},
	}).Register(r)
	(&SettingsHandler{Settings: flags}).Register(r)
	return &testServer{engine: r, store: store}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func dealJSON(id, mode, stage string, value, prob int, expected time.Time) map[string]any {
	return map[string]any{
		"deal_id":             id,
		"company_name":        "Company " + id,
		"contact_name":        "Contact " + id,
		"sales_rep":           "Lisa Anderson",
		"transportation_mode": mode,
		"origin_city":         "Austin, TX",
		"destination_city":    "Dallas, TX",
		"stage":               stage,
		"value":               value,
		"probability":         prob,
		"updated_date":        testNow.AddDate(0, 0, -1).Format(time.RFC3339),
		"expected_close_date": expected.Format(time.RFC3339),
	}
}
