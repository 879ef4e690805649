package handlers

import (
	"net/http"

	"github.com/modifikasi/partsdesk/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListParts returns the inventory, filtered and sorted from the query string
func (h *Handler) ListParts(c *gin.Context) {
	var filter models.PartFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts, err := h.Store.ListParts(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "part", "failed to fetch parts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": parts, "count": len(parts)})
}

// GetPart retrieves a specific part and counts the view
func (h *Handler) GetPart(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}

	part, err := h.Store.ViewPart(c.Request.Context(), partID, c.Query("customer_id"))
	if err != nil {
		h.respondError(c, err, "part", "database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"part": part})
}

// CreatePart adds a new part
func (h *Handler) CreatePart(c *gin.Context) {
	var input models.PartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.Store.CreatePart(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "part", "failed to create part")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "part created successfully",
		"part":    part,
	})
}

// UpdatePart updates a specific part
func (h *Handler) UpdatePart(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}

	var input models.PartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.Store.UpdatePart(c.Request.Context(), partID, input)
	if err != nil {
		h.respondError(c, err, "part", "failed to update part")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "part updated successfully",
		"part":    part,
	})
}

// AddStock receives new units into stock
func (h *Handler) AddStock(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}

	var input models.StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.Store.AddStock(c.Request.Context(), partID, input.Quantity)
	if err != nil {
		h.respondError(c, err, "part", "failed to add stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "stock added successfully",
		"part":    part,
	})
}

// MarkSold takes units out of stock and records the sale
func (h *Handler) MarkSold(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, sale, err := h.Store.MarkSold(c.Request.Context(), partID, input.Quantity, userID)
	if err != nil {
		h.respondError(c, err, "part", "failed to record sale")
		return
	}

	h.Log.Info("sale recorded",
		zap.Uint("part_id", partID),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total().StringFixed(2)),
	)
	c.JSON(http.StatusCreated, gin.H{
		"message": "sale recorded successfully",
		"part":    part,
		"sale":    sale,
	})
}

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	var input models.BulkIDsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Store.SetArchived(c.Request.Context(), input.IDs, archived)
	if err != nil {
		h.respondError(c, err, "part", "failed to update parts")
		return
	}

	verb := "restored"
	if archived {
		verb = "archived"
	}
	c.JSON(http.StatusOK, gin.H{"message": "parts " + verb, "updated": updated})
}

// ArchiveParts hides the selected parts from the default listing
func (h *Handler) ArchiveParts(c *gin.Context) {
	h.setArchived(c, true)
}

// RestoreParts brings archived parts back
func (h *Handler) RestoreParts(c *gin.Context) {
	h.setArchived(c, false)
}

// DeleteParts permanently removes the selected parts and their history
func (h *Handler) DeleteParts(c *gin.Context) {
	var input models.BulkIDsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.Store.DeleteParts(c.Request.Context(), input.IDs)
	if err != nil {
		h.respondError(c, err, "part", "failed to delete parts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "parts deleted successfully", "deleted": deleted})
}

// DeletePart permanently removes one part
func (h *Handler) DeletePart(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}

	deleted, err := h.Store.DeleteParts(c.Request.Context(), []uint{partID})
	if err != nil {
		h.respondError(c, err, "part", "failed to delete part")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "part not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "part deleted successfully"})
}

// LogInteraction records an inquiry, customization or view from a customer
func (h *Handler) LogInteraction(c *gin.Context) {
	partID, ok := paramID(c, "id", "part")
	if !ok {
		return
	}

	var input models.InteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interaction, err := h.Store.LogInteraction(c.Request.Context(), partID, input)
	if err != nil {
		h.respondError(c, err, "part", "failed to log interaction")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"interaction": interaction})
}
