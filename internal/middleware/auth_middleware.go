package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/pkg/auth"
)

// AdminClaimsKey — ключ контекста Gin с проверенными claims администратора
const AdminClaimsKey = "adminClaims"

// AuthMiddleware обеспечивает доступ к маршрутам администратора
type AuthMiddleware struct {
	tokens *auth.AdminTokenService
}

// NewAuthMiddleware создает middleware на основе сервиса токенов
func NewAuthMiddleware(tokens *auth.AdminTokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// AdminOnly пропускает только запросы с действительным токеном администратора
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			return
		}

		claims, err := m.tokens.ParseToken(parts[1])
		if err != nil {
			errorType := "token_invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				errorType = "token_expired"
			}
			log.Printf("[AuthMiddleware] Отклонен токен администратора (%s): %v", c.FullPath(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": errorType})
			return
		}

		c.Set(AdminClaimsKey, claims)
		c.Next()
	}
}
