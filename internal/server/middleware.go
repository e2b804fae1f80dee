package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/config"
)

// userIDKey is the gin context key the auth middleware stores the caller
// identity under.
const userIDKey = "auth.user_id"

// AuthRequired checks the Authorization bearer token and resolves the caller
// identity. Handlers behind it can trust UserID(c).
func AuthRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller's id, or 0 outside an
// authenticated route.
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}
