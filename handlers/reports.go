package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/modifikasi/partsdesk/store"

	"github.com/gin-gonic/gin"
)

// PopularParts charts the most viewed parts. With ?days=N the ranking uses
// view interactions from the last N days instead of the lifetime counter.
func (h *Handler) PopularParts(c *gin.Context) {
	category, unit := c.Query("category"), c.Query("unit")

	var (
		stats []store.PartStat
		err   error
	)
	if raw := c.Query("days"); raw != "" {
		days, convErr := strconv.Atoi(raw)
		if convErr != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		since := time.Now().AddDate(0, 0, -days)
		stats, err = h.Store.PopularPartsSince(c.Request.Context(), since, category, unit)
	} else {
		stats, err = h.Store.PopularParts(c.Request.Context(), category, unit)
	}
	if err != nil {
		h.respondError(c, err, "report", "failed to build report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": stats})
}

// CustomizedParts charts parts for the customization dashboard
func (h *Handler) CustomizedParts(c *gin.Context) {
	stats, err := h.Store.CustomizedParts(c.Request.Context(), c.Query("category"), c.Query("unit"))
	if err != nil {
		h.respondError(c, err, "report", "failed to build report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": stats})
}

// Summary returns the dashboard headline numbers
func (h *Handler) Summary(c *gin.Context) {
	sum, err := h.Store.Summary(c.Request.Context(), h.Opts.LowStockThreshold)
	if err != nil {
		h.respondError(c, err, "report", "failed to build summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": sum})
}
