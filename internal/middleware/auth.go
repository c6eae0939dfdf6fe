package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-blog/backend/internal/auth"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// Authenticate reads an optional bearer token. Requests without one go
// through anonymously; a token that fails verification is rejected.
func Authenticate(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := m.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// AuthMiddleware rejects requests that Authenticate did not attach a user to.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}

func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
