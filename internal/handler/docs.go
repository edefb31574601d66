package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs serves a short route overview at /docs.
func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Sales Pipeline Service

Interactive API reference: /swagger/index.html

## Deals
- POST /api/deals                 ingest one deal (201) or an array (207)
- GET  /api/deals                 stage analytics; ?stalled=1&stalled_days=N for the stalled report
- GET  /api/deals/list            scored list; search, sort, dir, month, type
- POST /api/deals/assign          {dealIds, assigned_rep_id, territory_id, changed_by}
- GET  /api/deals/audit?id=       audit trail
- POST /api/deals/search          territory_id, assigned_rep_id, stage, start_date, end_date
- GET  /api/deals/stalled/export  ?format=csv|xlsx|pdf
- GET  /api/history               ?group=mode|rep|size

## Forecast
- GET /api/analytics/forecast            ?horizon=3m|quarter&win_rate=true|false
- GET /api/analytics/forecast/dashboard
- GET /api/analytics/forecast/drilldown  ?month=YYYY-MM&type=won|expected|all
- GET /api/analytics/forecast/export     ?format=csv|xlsx|pdf

## Reps and territories
- GET|POST|DELETE /api/reps
- GET|POST|DELETE /api/territories
- GET /api/sales-reps
- PUT /api/sales-reps/update-territories

## Operations
- POST /api/seed
- GET|PUT /api/settings/switches[/:name]
- GET /healthz, GET /readyz
`)
	})
}
