package handlers

import (
	"net/http"

	"github.com/modifikasi/partsdesk/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListUsers returns every profile except the caller's
func (h *Handler) ListUsers(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	users, err := h.Store.ListUsersExcept(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err, "user", "failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// manageUser resolves the caller and target ids, runs op and reports the result
func (h *Handler) manageUser(c *gin.Context, action string, op func(ownerID, userID uint) (*models.User, error)) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := op(ownerID, userID)
	if err != nil {
		h.respondError(c, err, "user", "failed to update user")
		return
	}

	h.Log.Info("user access changed",
		zap.String("action", action),
		zap.Uint("owner_id", ownerID),
		zap.Uint("user_id", userID),
		zap.String("status", user.Status),
	)
	c.JSON(http.StatusOK, gin.H{"message": "user " + action, "user": user})
}

// ApproveRole assigns a role to an applicant and activates the account
func (h *Handler) ApproveRole(c *gin.Context) {
	var input models.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.manageUser(c, "approved", func(ownerID, userID uint) (*models.User, error) {
		return h.Store.ApproveRole(c.Request.Context(), ownerID, userID, input.Role)
	})
}

// DenyAccount rejects an application
func (h *Handler) DenyAccount(c *gin.Context) {
	h.manageUser(c, "denied", func(ownerID, userID uint) (*models.User, error) {
		return h.Store.DenyAccount(c.Request.Context(), ownerID, userID)
	})
}

// ToggleStatus suspends an active account or reactivates any other
func (h *Handler) ToggleStatus(c *gin.Context) {
	h.manageUser(c, "status updated", func(ownerID, userID uint) (*models.User, error) {
		return h.Store.ToggleStatus(c.Request.Context(), ownerID, userID)
	})
}

// DeleteUser removes a profile
func (h *Handler) DeleteUser(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.Store.DeleteUser(c.Request.Context(), ownerID, userID); err != nil {
		h.respondError(c, err, "user", "failed to delete user")
		return
	}

	// tokens already issued to the user fail AuthMiddleware's lookup from here on
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
