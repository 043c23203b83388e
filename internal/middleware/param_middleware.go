package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/examine-api/internal/service/attempt"
)

// SessionKey — ключ контекста Gin, под которым лежит *attempt.Session
const SessionKey = "session"

// ExtractSession создает middleware для извлечения сессии по параметру URL.
// paramName - имя параметра в URL (например, "sid").
// Неверный UUID дает 400, неизвестная сессия 404.
func ExtractSession(registry *attempt.Registry, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.Param(paramName)
		if _, err := uuid.Parse(sid); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid session id", "error_type": "validation_error"})
			return
		}

		session, err := registry.Get(sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found", "error_type": "not_found"})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// SessionFrom возвращает сессию, положенную ExtractSession
func SessionFrom(c *gin.Context) *attempt.Session {
	return c.MustGet(SessionKey).(*attempt.Session)
}
