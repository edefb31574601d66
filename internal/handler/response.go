package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salespipeline/internal/service"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Error: message})
}

// serviceError maps service sentinels onto HTTP statuses. Upstream and
// unknown failures never leak their detail to the client.
func serviceError(c *gin.Context, logger *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrDisabled):
		Error(c, http.StatusForbidden, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		Error(c, http.StatusInternalServerError, internalErrorMessage)
	}
}
