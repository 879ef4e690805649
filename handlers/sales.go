package handlers

import (
	"net/http"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) respondSales(c *gin.Context, filter models.SaleFilter) {
	sales, err := h.Store.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "sale", "failed to fetch sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":   sales,
		"count":   len(sales),
		"revenue": store.Revenue(sales),
	})
}

// ListSales returns the sales history, optionally narrowed by part and date range
func (h *Handler) ListSales(c *gin.Context) {
	var filter models.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	h.respondSales(c, filter)
}

// PartSales returns the sales history of one part
func (h *Handler) PartSales(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}
	if _, err := h.Store.GetPart(c.Request.Context(), partID); err != nil {
		h.respondError(c, err, "part", "database error")
		return
	}

	h.respondSales(c, models.SaleFilter{PartID: partID})
}
