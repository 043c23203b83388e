package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
	"github.com/yourusername/examine-api/internal/service"
)

// handleError переводит ошибку сервиса в HTTP-ответ. Формат тела:
// {"error": "...", "error_type": "..."}.
func handleError(c *gin.Context, err error) {
	log.Printf("[Handler] %s %s: %v", c.Request.Method, c.FullPath(), err)

	// Частичный успех проверяется первым: он оборачивает исходную ошибку хранилища
	if cw, ok := apperrors.AsConsistencyWarning(err); ok {
		c.JSON(http.StatusMultiStatus, gin.H{
			"error":      "Quiz set was created but its questions could not be saved",
			"error_type": "partial_write",
			"orphan_id":  cw.OrphanID,
			"details":    cw.Message,
		})
		return
	}

	var storeErr *apperrors.StoreError

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "invalid_state"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Requested resource not found", "error_type": "not_found"})
	case errors.Is(err, service.ErrDeliveryFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Report could not be delivered", "error_type": "delivery_failed"})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": storeErr.Message, "error_type": "store_error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}

// bindError отвечает 400 на неразобранное тело запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "bad_request"})
}
