package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salespipeline/internal/export"
	"salespipeline/internal/service"
)

const maxIngestBody = 8 << 20

type DealHandler struct {
	Deals     *service.DealService
	Analytics *service.AnalyticsService
	Logger    *zap.Logger
	Now       func() time.Time
}

func (h *DealHandler) Register(r *gin.Engine) {
	g := r.Group("/api/deals")
	g.POST("", h.ingest)
	g.GET("", h.stages)
	g.GET("/list", h.list)
	g.POST("/assign", h.assign)
	g.GET("/audit", h.audit)
	g.POST("/search", h.search)
	g.GET("/stalled/export", h.exportStalled)
	r.GET("/api/history", h.history)
}

// @Summary Ingest deals
// @Description A JSON object stores one deal; a JSON array stores a batch and answers 207.
// @Tags deals
// @Accept json
// @Produce json
// @Param body body service.DealInput true "deal or array of deals"
// @Success 201 {object} map[string]string
// @Success 207 {object} service.BatchResult
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/deals [post]
func (h *DealHandler) ingest(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIngestBody))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	ctx := c.Request.Context()
	if service.IsBatch(body) {
		res, err := h.Deals.IngestBatch(ctx, body)
		if err != nil {
			serviceError(c, h.Logger, err, "")
			return
		}
		c.JSON(http.StatusMultiStatus, res)
		return
	}
	id, err := h.Deals.IngestOne(ctx, body)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deal_id": id})
}

// @Summary Stage analytics or stalled report
// @Description With stalled=1 returns the stalled-deal report, otherwise deals grouped by stage.
// @Tags deals
// @Produce json
// @Param stalled query string false "1 for the stalled report"
// @Param stalled_days query int false "staleness threshold in days"
// @Success 200 {object} service.StageAnalytics
// @Failure 500 {object} errorResponse
// @Router /api/deals [get]
func (h *DealHandler) stages(c *gin.Context) {
	ctx := c.Request.Context()
	if v := strings.TrimSpace(c.Query("stalled")); v == "1" || strings.EqualFold(v, "true") {
		entries, err := h.Analytics.Stalled(ctx, intQuery(c, "stalled_days", 0))
		if err != nil {
			serviceError(c, h.Logger, err, "")
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}
	out, err := h.Deals.StageAnalytics(ctx)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Scored deal list
// @Tags deals
// @Produce json
// @Param search query string false "case-insensitive search term"
// @Param sort query string false "sort field, e.g. days_since_update"
// @Param dir query string false "asc or desc"
// @Param month query string false "forecast month YYYY-MM"
// @Param type query string false "won, expected or all"
// @Success 200 {array} service.ListedDeal
// @Failure 400 {object} errorResponse
// @Router /api/deals/list [get]
func (h *DealHandler) list(c *gin.Context) {
	items, err := h.Deals.List(c.Request.Context(), service.ListParams{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Desc:   descending(c.Query("dir")),
		Month:  c.Query("month"),
		Type:   c.Query("type"),
	})
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Assign deals to a rep and/or territory
// @Tags deals
// @Accept json
// @Produce json
// @Param body body service.AssignRequest true "assignment"
// @Success 200 {object} map[string]int
// @Failure 400 {object} errorResponse
// @Router /api/deals/assign [post]
func (h *DealHandler) assign(c *gin.Context) {
	var req service.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid input")
		return
	}
	n, err := h.Deals.Assign(c.Request.Context(), req)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// @Summary Deal audit trail
// @Tags deals
// @Produce json
// @Param id query int true "deal id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/deals/audit [get]
func (h *DealHandler) audit(c *gin.Context) {
	id, present, ok := uint64Query(c, "id")
	if !present {
		Error(c, http.StatusBadRequest, "Missing id")
		return
	}
	if !ok {
		Error(c, http.StatusNotFound, "Deal not found")
		return
	}
	trail, err := h.Deals.AuditTrail(c.Request.Context(), id)
	if err != nil {
		serviceError(c, h.Logger, err, "Deal not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_trail": trail})
}

type searchRequest struct {
	TerritoryID   *uint64 `json:"territory_id"`
	AssignedRepID *uint64 `json:"assigned_rep_id"`
	Stage         *string `json:"stage"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}

// parseDate accepts RFC 3339 timestamps or bare dates. An end date without a
// time covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := service.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	if endOfDay && len(raw) == len(time.DateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// @Summary Search deals
// @Tags deals
// @Accept json
// @Produce json
// @Param body body searchRequest true "filters"
// @Success 200 {array} models.Deal
// @Failure 400 {object} errorResponse
// @Router /api/deals/search [post]
func (h *DealHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid input")
		return
	}
	start, err := parseDate(req.StartDate, false)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(req.EndDate, true)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Deals.Search(c.Request.Context(), service.SearchRequest{
		TerritoryID:   req.TerritoryID,
		AssignedRepID: req.AssignedRepID,
		Stage:         req.Stage,
		StartDate:     start,
		EndDate:       end,
	})
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Closed-deal history
// @Tags deals
// @Produce json
// @Param group query string false "mode, rep or size"
// @Success 200 {object} map[string]any
// @Router /api/history [get]
func (h *DealHandler) history(c *gin.Context) {
	stats, err := h.Deals.History(c.Request.Context(), c.Query("group"))
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// @Summary Export the stalled-deal report
// @Tags deals
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Param stalled_days query int false "staleness threshold in days"
// @Success 200 {file} file
// @Failure 400 {object} errorResponse
// @Router /api/deals/stalled/export [get]
func (h *DealHandler) exportStalled(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.Analytics.Stalled(c.Request.Context(), intQuery(c, "stalled_days", 0))
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	writeExport(c, h.Logger, format, "stalled-deals", export.StalledTable(entries), h.now())
}

func (h *DealHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func writeExport(c *gin.Context, logger *zap.Logger, format export.Format, name string, table export.Table, at time.Time) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		serviceError(c, logger, err, "")
		return
	}
	filename := fmt.Sprintf("%s-%s%s", name, at.Format(time.DateOnly), format.Extension())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
