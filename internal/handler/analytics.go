package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salespipeline/internal/export"
	"salespipeline/internal/forecast"
	"salespipeline/internal/service"
)

type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
	Logger    *zap.Logger
	Now       func() time.Time
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/analytics/forecast")
	g.GET("", h.getForecast)
	g.GET("/dashboard", h.dashboard)
	g.GET("/drilldown", h.drilldown)
	g.GET("/export", h.exportForecast)
}

type forecastBucket struct {
	ForecastedRevenue decimal.Decimal `json:"forecasted_revenue"`
	Deals             []string        `json:"deals"`
	Quarter           string          `json:"quarter"`
}

type forecastResponse struct {
	Forecast   map[string]forecastBucket `json:"forecast"`
	Message    string                    `json:"message,omitempty"`
	HorizonEnd string                    `json:"horizon_end"`
}

func toForecastResponse(res forecast.Result) forecastResponse {
	out := forecastResponse{
		Forecast:   make(map[string]forecastBucket, len(res.Buckets)),
		HorizonEnd: res.End.Format(time.DateOnly),
	}
	for _, b := range res.Buckets {
		out.Forecast[b.Month] = forecastBucket{
			ForecastedRevenue: b.Revenue.Round(2),
			Deals:             b.DealIDs,
			Quarter:           b.Quarter,
		}
	}
	if res.IsEmpty {
		out.Message = forecast.EmptyMessage
	}
	return out
}

func (h *AnalyticsHandler) resolve(c *gin.Context) (forecast.Result, bool) {
	ctx := c.Request.Context()
	opts, err := h.Analytics.ForecastOptions(ctx, c.Query("horizon"), boolQueryPtr(c, "win_rate"))
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return forecast.Result{}, false
	}
	res, err := h.Analytics.Forecast(ctx, opts)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return forecast.Result{}, false
	}
	return res, true
}

// @Summary Monthly pipeline forecast
// @Tags analytics
// @Produce json
// @Param horizon query string false "3m or quarter"
// @Param win_rate query bool false "weight by per-mode win rate"
// @Success 200 {object} forecastResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/analytics/forecast [get]
func (h *AnalyticsHandler) getForecast(c *gin.Context) {
	res, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toForecastResponse(res))
}

type dashboardMonth struct {
	Month            string          `json:"month"`
	MonthLabel       string          `json:"month_label"`
	AlreadyWon       decimal.Decimal `json:"already_won"`
	PredictedRevenue decimal.Decimal `json:"predicted_revenue"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	DealCount        int             `json:"deal_count"`
}

// @Summary Dashboard forecast cards
// @Tags analytics
// @Produce json
// @Success 200 {array} dashboardMonth
// @Failure 500 {object} errorResponse
// @Router /api/analytics/forecast/dashboard [get]
func (h *AnalyticsHandler) dashboard(c *gin.Context) {
	months, err := h.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	out := make([]dashboardMonth, 0, len(months))
	for _, m := range months {
		out = append(out, dashboardMonth{
			Month:            m.Month,
			MonthLabel:       m.MonthLabel,
			AlreadyWon:       m.AlreadyWon.Round(2),
			PredictedRevenue: m.PredictedRevenue.Round(2),
			TotalRevenue:     m.TotalRevenue.Round(2),
			DealCount:        m.DealCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Deals behind a dashboard bucket
// @Tags analytics
// @Produce json
// @Param month query string true "YYYY-MM"
// @Param type query string false "won, expected or all"
// @Success 200 {array} models.Deal
// @Failure 400 {object} errorResponse
// @Router /api/analytics/forecast/drilldown [get]
func (h *AnalyticsHandler) drilldown(c *gin.Context) {
	deals, err := h.Analytics.Drilldown(c.Request.Context(), forecast.Selector{
		Month: c.Query("month"),
		Type:  c.Query("type"),
	})
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// @Summary Export the forecast
// @Tags analytics
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Param horizon query string false "3m or quarter"
// @Param win_rate query bool false "weight by per-mode win rate"
// @Success 200 {file} file
// @Failure 400 {object} errorResponse
// @Router /api/analytics/forecast/export [get]
func (h *AnalyticsHandler) exportForecast(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := h.resolve(c)
	if !ok {
		return
	}
	at := time.Now().UTC()
	if h.Now != nil {
		at = h.Now().UTC()
	}
	writeExport(c, h.Logger, format, "forecast", export.ForecastTable(res), at)
}
