package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckConnection pings the database
func (h *Handler) CheckConnection(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PartsDesk API is up"})
}
