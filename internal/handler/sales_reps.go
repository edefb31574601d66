package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salespipeline/internal/service"
)

type SalesRepHandler struct {
	SalesReps *service.SalesRepService
	Seed      *service.SeedService
	Logger    *zap.Logger
}

func (h *SalesRepHandler) Register(r *gin.Engine) {
	r.GET("/api/sales-reps", h.list)
	r.PUT("/api/sales-reps/update-territories", h.updateTerritories)
	r.POST("/api/seed", h.seed)
}

// @Summary Sales roster with refreshed deal counts
// @Tags sales-reps
// @Produce json
// @Success 200 {array} models.SalesRep
// @Failure 500 {object} errorResponse
// @Router /api/sales-reps [get]
func (h *SalesRepHandler) list(c *gin.Context) {
	reps, err := h.SalesReps.Sync(c.Request.Context())
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, reps)
}

// @Summary Move sales reps to a territory
// @Tags sales-reps
// @Accept json
// @Produce json
// @Param body body service.UpdateTerritoriesRequest true "salesRepIds and newTerritory"
// @Success 200 {object} service.UpdateTerritoriesResult
// @Failure 400 {object} errorResponse
// @Router /api/sales-reps/update-territories [put]
func (h *SalesRepHandler) updateTerritories(c *gin.Context) {
	var req service.UpdateTerritoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "salesRepIds is required and must be a non-empty array")
		return
	}
	res, err := h.SalesReps.UpdateTerritories(c.Request.Context(), req)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Load demo data
// @Tags seed
// @Produce json
// @Success 200 {object} service.SeedResult
// @Failure 403 {object} errorResponse
// @Router /api/seed [post]
func (h *SalesRepHandler) seed(c *gin.Context) {
	res, err := h.Seed.Seed(c.Request.Context())
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}
