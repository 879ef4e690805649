package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CodeSender delivers a password-reset code to its owner
type CodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes codes to the log; used until a mail relay is configured
type LogCodeSender struct {
	Log *zap.Logger
}

func (s LogCodeSender) SendResetCode(_ context.Context, email, code string) error {
	s.Log.Info("password reset code issued", zap.String("email", email), zap.String("code", code))
	return nil
}

const resetRequestedMessage = "if the email is registered, a 6-digit reset code has been sent"

// RequestResetCode issues a reset code. Unknown emails get the same answer.
func (h *Handler) RequestResetCode(c *gin.Context) {
	var input models.ResetRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	user, err := h.Store.FindByEmail(ctx, input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
		return
	}
	if err != nil {
		h.respondError(c, err, "user", "failed to send reset code")
		return
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		h.respondError(c, err, "code", "failed to send reset code")
		return
	}
	codeHash, err := utils.HashSecret(code)
	if err != nil {
		h.respondError(c, err, "code", "failed to send reset code")
		return
	}
	if _, err := h.Store.CreateResetCode(ctx, user.Email, codeHash, h.Opts.ResetCodeTTL); err != nil {
		h.respondError(c, err, "code", "failed to send reset code")
		return
	}
	if err := h.Codes.SendResetCode(ctx, user.Email, code); err != nil {
		h.Log.Warn("reset code delivery failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	// same body as the unknown-email branch
	resp := gin.H{"message": resetRequestedMessage}
	if h.Opts.ExposeResetCodes {
		resp["code"] = code
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyResetCode checks a code without consuming it
func (h *Handler) VerifyResetCode(c *gin.Context) {
	var input models.ResetVerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Store.VerifyResetCode(c.Request.Context(), input.Email, input.Code, h.Opts.ResetMaxAttempts); err != nil {
		h.respondError(c, err, "code", "failed to verify code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "code verified, you can now set a new password"})
}

// ResetPassword consumes a code and sets the new password
func (h *Handler) ResetPassword(c *gin.Context) {
	var input models.ResetConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.NewPassword) < utils.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	passwordHash, err := utils.HashSecret(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	err = h.Store.ConsumeResetCode(c.Request.Context(), input.Email, input.Code, h.Opts.ResetMaxAttempts, passwordHash)
	if err != nil {
		h.respondError(c, err, "user", "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password has been reset successfully"})
}
