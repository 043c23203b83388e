package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/domain/entity"
	"github.com/yourusername/examine-api/internal/handler/dto"
	"github.com/yourusername/examine-api/internal/handler/helper"
	"github.com/yourusername/examine-api/internal/service"
)

// AdminHandler обрабатывает вход администратора и создание наборов вопросов
type AdminHandler struct {
	adminService   *service.AdminService
	catalogService *service.CatalogService
}

// NewAdminHandler создает новый обработчик администратора
func NewAdminHandler(adminService *service.AdminService, catalogService *service.CatalogService) *AdminHandler {
	return &AdminHandler{adminService: adminService, catalogService: catalogService}
}

// LoginRequest — вход по общему паролю
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// CreateSubjectRequest — новый предмет
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateQuizRequest — новый набор вопросов.
// Варианты принимаются строками или объектами {id, text}.
type CreateQuizRequest struct {
	Name      string `json:"name" binding:"required"`
	SubjectID string `json:"subject_id" binding:"required"`
	Questions []struct {
		Text          string                  `json:"text" binding:"required"`
		ImageURL      string                  `json:"image_url"`
		Options       []string                `json:"options"`
		OptionObjects []helper.QuestionOption `json:"option_objects"`
		CorrectAnswer *int                    `json:"correct_answer" binding:"required"`
		Explanation   string                  `json:"explanation"`
	} `json:"questions" binding:"required,min=1,dive"`
}

// Login проверяет пароль и выдает токен администратора
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, expiresAt, err := h.adminService.Login(c.Request.Context(), req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer", "expires_at": expiresAt})
}

// CreateSubject создает предмет
func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	subject, err := h.catalogService.CreateSubject(c.Request.Context(), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSubjectResponse(*subject))
}

// CreateQuiz создает набор вопросов вместе с вопросами.
// Частичное сохранение дает 207 с orphan_id.
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz := &entity.Quiz{Name: req.Name, SubjectID: req.SubjectID}
	for _, q := range req.Questions {
		options := entity.StringArray(q.Options)
		if len(options) == 0 && len(q.OptionObjects) > 0 {
			options = helper.ConvertObjectsToOptions(q.OptionObjects)
		}
		quiz.Questions = append(quiz.Questions, entity.Question{
			Text:          q.Text,
			ImageURL:      q.ImageURL,
			Options:       options,
			CorrectAnswer: *q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	created, err := h.catalogService.CreateQuiz(c.Request.Context(), quiz)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuizResponse(created, true, true))
}
