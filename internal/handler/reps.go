package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
	"salespipeline/internal/service"
)

type RepHandler struct {
	Reps        *service.RepService
	Territories *service.TerritoryService
	Logger      *zap.Logger
}

func (h *RepHandler) Register(r *gin.Engine) {
	reps := r.Group("/api/reps")
	reps.GET("", h.listReps)
	reps.POST("", h.saveRep)
	reps.DELETE("", h.deleteRep)

	territories := r.Group("/api/territories")
	territories.GET("", h.listTerritories)
	territories.POST("", h.saveTerritory)
	territories.DELETE("", h.deleteTerritory)
}

// @Summary List reps or get one by id
// @Tags reps
// @Produce json
// @Param id query int false "rep id"
// @Success 200 {array} models.Rep
// @Failure 404 {object} errorResponse
// @Router /api/reps [get]
func (h *RepHandler) listReps(c *gin.Context) {
	ctx := c.Request.Context()
	if id, present, ok := uint64Query(c, "id"); present {
		if !ok {
			Error(c, http.StatusNotFound, "Not found")
			return
		}
		rep, err := h.Reps.Get(ctx, id)
		if err != nil {
			serviceError(c, h.Logger, err, "Not found")
			return
		}
		c.JSON(http.StatusOK, rep)
		return
	}
	items, err := h.Reps.List(ctx)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Create or update a rep
// @Tags reps
// @Accept json
// @Produce json
// @Param body body models.Rep true "rep"
// @Success 201 {object} models.Rep
// @Failure 400 {object} errorResponse
// @Router /api/reps [post]
func (h *RepHandler) saveRep(c *gin.Context) {
	var item models.Rep
	if err := c.ShouldBindJSON(&item); err != nil {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.Reps.Save(c.Request.Context(), &item); err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// @Summary Delete a rep
// @Tags reps
// @Produce json
// @Param id query int true "rep id"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errorResponse
// @Router /api/reps [delete]
func (h *RepHandler) deleteRep(c *gin.Context) {
	id, present, ok := uint64Query(c, "id")
	if !present {
		Error(c, http.StatusBadRequest, "Missing id")
		return
	}
	if ok {
		if err := h.Reps.Delete(c.Request.Context(), id); err != nil {
			serviceError(c, h.Logger, err, "")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary List territories with metrics or get one by id
// @Tags territories
// @Produce json
// @Param id query int false "territory id"
// @Param region query string false "region filter"
// @Param rep query int false "assigned rep filter"
// @Success 200 {array} models.Territory
// @Failure 404 {object} errorResponse
// @Router /api/territories [get]
func (h *RepHandler) listTerritories(c *gin.Context) {
	ctx := c.Request.Context()
	if id, present, ok := uint64Query(c, "id"); present {
		if !ok {
			Error(c, http.StatusNotFound, "Not found")
			return
		}
		item, err := h.Territories.Get(ctx, id)
		if err != nil {
			serviceError(c, h.Logger, err, "Not found")
			return
		}
		c.JSON(http.StatusOK, item)
		return
	}
	params := repository.ListTerritoriesParams{Region: strQueryPtr(c, "region")}
	if _, present, _ := uint64Query(c, "rep"); present {
		params.RepID = uint64QueryPtr(c, "rep")
		if params.RepID == nil {
			c.JSON(http.StatusOK, []models.Territory{})
			return
		}
	}
	items, err := h.Territories.List(ctx, params)
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Create or update a territory
// @Tags territories
// @Accept json
// @Produce json
// @Param body body models.Territory true "territory"
// @Success 201 {object} models.Territory
// @Failure 400 {object} errorResponse
// @Router /api/territories [post]
func (h *RepHandler) saveTerritory(c *gin.Context) {
	var item models.Territory
	if err := c.ShouldBindJSON(&item); err != nil {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.Territories.Save(c.Request.Context(), &item); err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// @Summary Delete a territory
// @Tags territories
// @Produce json
// @Param id query int true "territory id"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errorResponse
// @Router /api/territories [delete]
func (h *RepHandler) deleteTerritory(c *gin.Context) {
	id, present, ok := uint64Query(c, "id")
	if !present {
		Error(c, http.StatusBadRequest, "Missing id")
		return
	}
	if ok {
		if err := h.Territories.Delete(c.Request.Context(), id); err != nil {
			serviceError(c, h.Logger, err, "")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
