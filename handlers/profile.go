package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/modifikasi/partsdesk/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var avatarExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// GetProfile returns the caller's shop profile
func (h *Handler) GetProfile(c *gin.Context) {
	h.Me(c)
}

// UpdateProfile saves the shop profile fields
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Store.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		h.respondError(c, err, "user", "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": user})
}

// UploadAvatar stores the multipart "file" as profile-pics/<user id>.<ext>,
// replacing any earlier upload, and saves its public URL on the profile.
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.Opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Opts.MaxUploadBytes+(1<<20))
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if h.Opts.MaxUploadBytes > 0 && header.Size > h.Opts.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !avatarExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpg, jpeg, png, gif and webp images are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("profile-pics/%d.%s", userID, ext)
	if err := h.Avatars.Upload(c.Request.Context(), key, file); err != nil {
		h.respondError(c, err, "file", "failed to upload file")
		return
	}

	// the key is reused on every upload, so version the URL to bust caches
	url := fmt.Sprintf("%s?v=%d", h.Avatars.PublicURL(key), time.Now().Unix())
	user, err := h.Store.SetProfilePic(c.Request.Context(), userID, url)
	if err != nil {
		h.respondError(c, err, "user", "failed to save profile picture")
		return
	}

	h.Log.Info("profile picture uploaded", zap.Uint("user_id", userID), zap.String("key", key))
	c.JSON(http.StatusOK, gin.H{"message": "profile picture updated", "profile_pic": url, "user": user})
}
