package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/handler/dto"
	"github.com/yourusername/examine-api/internal/service"
)

// CatalogHandler отдает предметы и наборы вопросов
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListSubjects возвращает предметы, отсортированные по имени
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalogService.ListSubjects(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListSubjectResponse(subjects))
}

// ListQuizSets возвращает наборы предмета
func (h *CatalogHandler) ListQuizSets(c *gin.Context) {
	sets, err := h.catalogService.ListQuizSets(c.Request.Context(), c.Param("subjectID"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListQuizSetResponse(sets))
}

// ListQuizzes возвращает наборы с вопросами; правильные ответы скрыты
func (h *CatalogHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.catalogService.ListQuizzes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListQuizResponse(quizzes))
}
