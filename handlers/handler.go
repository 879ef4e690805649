package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/modifikasi/partsdesk/middleware"
	"github.com/modifikasi/partsdesk/storage"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options are the tunables handlers read from config
type Options struct {
	ResetCodeTTL      time.Duration
	ResetMaxAttempts  int
	ExposeResetCodes  bool
	MaxUploadBytes    int64
	LowStockThreshold int
}

// Handler carries the dependencies shared by every endpoint
type Handler struct {
	Store   *store.Store
	JWT     *utils.JWTManager
	Avatars storage.Bucket
	Codes   CodeSender
	Log     *zap.Logger
	Opts    Options
}

// respondError maps store errors onto HTTP statuses. Anything unexpected is
// logged and reported with the generic fallback message.
func (h *Handler) respondError(c *gin.Context, err error, what, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInvalidPart),
		errors.Is(err, store.ErrNoSelection),
		errors.Is(err, store.ErrSelf),
		errors.Is(err, store.ErrInvalidCode),
		errors.Is(err, store.ErrInvalidUsername),
		errors.Is(err, storage.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrArchived),
		errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.Log.Error(fallback, zap.Error(err), zap.String("request_id", c.GetString(middleware.RequestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// paramID parses a positive numeric path parameter
func paramID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the id set by AuthMiddleware
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return 0, false
	}
	return id, true
}
