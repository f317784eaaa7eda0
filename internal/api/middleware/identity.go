package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader carries the caller identity issued by the external
	// session provider. The engine trusts it as the ownership key.
	UserIDHeader = "X-User-ID"

	// UserIDKey ключ в контексте gin для идентификатора пользователя
	UserIDKey = "user_id"
)

// Identity извлекает идентификатор пользователя из заголовка запроса
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID != "" {
			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

// CallerID returns the caller identity set by Identity, empty when absent
func CallerID(c *gin.Context) string {
	if val, exists := c.Get(UserIDKey); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
