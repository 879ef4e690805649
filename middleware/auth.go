package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

// SessionStore is what AuthMiddleware needs from persistence
type SessionStore interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware handles authentication check. The account behind the token
// must still exist and be active; its current role is what gets enforced.
func AuthMiddleware(jwt *utils.JWTManager, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.Id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		user, err := sessions.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if user.Status != models.StatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account " + user.Status})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, user.Role)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": strings.Join(roles, " or ") + " privileges required"})
	}
}

// AdminRequired ensures user has admin role
func AdminRequired() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// OwnerRequired ensures user has owner role
func OwnerRequired() gin.HandlerFunc {
	return RequireRoles(models.RoleOwner)
}
