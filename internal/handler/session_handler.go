package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/service"
	"github.com/yourusername/examine-api/internal/service/attempt"
)

// SessionHandler создает и удаляет клиентские сессии
type SessionHandler struct {
	registry       *attempt.Registry
	catalogService *service.CatalogService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(registry *attempt.Registry, catalogService *service.CatalogService) *SessionHandler {
	return &SessionHandler{registry: registry, catalogService: catalogService}
}

// CreateSession создает сессию и загружает в нее снимок каталога.
// Недоступный каталог не мешает созданию: он будет загружен при старте попытки.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session := h.registry.Create()

	resp := gin.H{"session_id": session.ID()}
	quizzes, err := h.catalogService.ListQuizzes(c.Request.Context())
	if err != nil {
		log.Printf("[SessionHandler] Каталог для сессии %s не загружен: %v", session.ID(), err)
		resp["catalog_error"] = "Failed to load quiz data"
	} else {
		session.SetCatalog(quizzes)
		resp["quiz_count"] = len(quizzes)
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteSession удаляет сессию вместе с попыткой
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.registry.Delete(session.ID()); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
