package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// parseID reads a positive numeric path parameter, writing a 400 when it is not one.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto status codes. Anything unclassified came
// from the data store and is passed through as a 400.
func respondError(c *gin.Context, stage string, err error) {
	l := zerolog.Ctx(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotificationFailed), errors.Is(err, services.ErrOrderItems):
		l.Error().Err(err).Str("stage", stage).Msg("request failed after state change")
		c.JSON(http.StatusInternalServerError, gin.H{"error": stage + " failed"})
	default:
		l.Warn().Err(err).Str("stage", stage).Msg("data store rejected request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
