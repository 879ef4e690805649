package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/modifikasi/partsdesk/middleware"
	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignUp submits an account application. It stays pending until an owner approves it.
func (h *Handler) SignUp(c *gin.Context) {
	var input models.UserRegister
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashSecret(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	user := models.User{
		Email:    input.Email,
		Username: strings.TrimSpace(input.Username),
		FullName: strings.TrimSpace(input.FullName),
		Password: hashedPassword,
		Status:   models.StatusPending,
	}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		h.respondError(c, err, "user", "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "your account application has been submitted and is awaiting approval",
		"user_id": user.ID,
	})
}

// SignIn authenticates an active user and returns a JWT token
func (h *Handler) SignIn(c *gin.Context) {
	var input models.UserLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Store.FindByLogin(c.Request.Context(), input.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondError(c, err, "user", "database error")
		return
	}

	if !utils.CheckSecret(user.Password, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	switch user.Status {
	case models.StatusActive:
	case models.StatusSuspended:
		c.JSON(http.StatusForbidden, gin.H{"error": "account suspended"})
		return
	case models.StatusDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": "account application denied"})
		return
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "account awaiting approval"})
		return
	}

	token, claims, err := h.JWT.GenerateJWT(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	h.Log.Info("user signed in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	c.JSON(http.StatusOK, gin.H{
		"message":    "login successful",
		"token":      token,
		"expires_at": time.Unix(claims.ExpiresAt, 0).UTC(),
		"user":       user,
	})
}

func currentClaims(c *gin.Context) (*utils.JWTClaim, bool) {
	v, ok := c.Get(middleware.ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.JWTClaim)
	return claims, ok
}

// SignOut revokes the caller's token
func (h *Handler) SignOut(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Store.RevokeToken(c.Request.Context(), claims.Id, time.Unix(claims.ExpiresAt, 0)); err != nil {
		h.respondError(c, err, "token", "failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Refresh swaps a still-valid token for a new one and revokes the old
func (h *Handler) Refresh(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	token, fresh, err := h.JWT.GenerateJWT(userID, c.GetString(middleware.RoleKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	if err := h.Store.RevokeToken(c.Request.Context(), claims.Id, time.Unix(claims.ExpiresAt, 0)); err != nil {
		h.respondError(c, err, "token", "failed to refresh session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Unix(fresh.ExpiresAt, 0).UTC(),
	})
}

// Me returns the caller's profile
func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.Store.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "user", "database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
