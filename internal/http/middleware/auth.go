package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// TokenParser resolves a bearer token to the identity it was issued for.
type TokenParser interface {
	ParseToken(token string) (int64, string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity on the context for handlers downstream.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
				"code":  "unauthenticated",
			})
			return
		}

		token := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}

		userID, username, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  "unauthenticated",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Set(usernameKey, username)
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0 when unauthenticated.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetUsername returns the authenticated username, or "" when unauthenticated.
func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(usernameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
