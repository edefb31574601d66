package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salespipeline/internal/service"
)

type SettingsHandler struct {
	Settings *service.SystemSettingsService
	Logger   *zap.Logger
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/settings/switches")
	g.GET("", h.listSwitches)
	g.GET("/:name", h.getSwitch)
	g.PUT("/:name", h.putSwitch)
}

// @Summary List feature switches
// @Tags settings
// @Produce json
// @Success 200 {array} service.Switch
// @Router /api/settings/switches [get]
func (h *SettingsHandler) listSwitches(c *gin.Context) {
	items, err := h.Settings.ListSwitches(c.Request.Context())
	if err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	if items == nil {
		items = []service.Switch{}
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Get a feature switch
// @Tags settings
// @Produce json
// @Param name path string true "switch name without the feature. prefix"
// @Success 200 {object} map[string]any
// @Router /api/settings/switches/{name} [get]
func (h *SettingsHandler) getSwitch(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		Error(c, http.StatusBadRequest, "invalid switch name")
		return
	}
	key := "feature." + name
	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"key":     key,
		"enabled": h.Settings.IsEnabled(c.Request.Context(), key, false),
	})
}

type putSwitchRequest struct {
	Enabled *bool `json:"enabled"`
}

// @Summary Toggle a feature switch
// @Tags settings
// @Accept json
// @Produce json
// @Param name path string true "switch name without the feature. prefix"
// @Param body body putSwitchRequest true "enabled"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /api/settings/switches/{name} [put]
func (h *SettingsHandler) putSwitch(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		Error(c, http.StatusBadRequest, "invalid switch name")
		return
	}
	var req putSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	key := "feature." + name
	if err := h.Settings.SetEnabled(c.Request.Context(), key, *req.Enabled); err != nil {
		serviceError(c, h.Logger, err, "")
		return
	}
	if h.Logger != nil {
		h.Logger.Info("feature switch updated", zap.String("key", key), zap.Bool("enabled", *req.Enabled))
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"key":     key,
		"enabled": *req.Enabled,
	})
}
