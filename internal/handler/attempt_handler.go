package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/handler/dto"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/service"
	"github.com/yourusername/examine-api/internal/service/scoring"
)

// AttemptHandler управляет попыткой внутри сессии
type AttemptHandler struct {
	catalogService *service.CatalogService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(catalogService *service.CatalogService) *AttemptHandler {
	return &AttemptHandler{catalogService: catalogService}
}

// StartAttemptRequest — запрос на начало попытки
type StartAttemptRequest struct {
	QuizID string `json:"quiz_id" binding:"required"`
}

// AnswerRequest — выбор варианта ответа
type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Option     *int   `json:"option" binding:"required"`
}

// MarkRequest — переключение отметки «на проверку»
type MarkRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// EndAttemptRequest — завершение попытки; без end_time используется текущее время
type EndAttemptRequest struct {
	EndTime *time.Time `json:"end_time"`
}

// AspirantRequest — имя для отчета; пустая строка очищает имя
type AspirantRequest struct {
	Name string `json:"name" binding:"max=400"`
}

// StartAttempt начинает попытку. Если набора нет в снимке сессии, каталог перечитывается.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !session.HasQuiz(req.QuizID) {
		quizzes, err := h.catalogService.ListQuizzes(c.Request.Context())
		if err != nil {
			handleError(c, err)
			return
		}
		session.SetCatalog(quizzes)
	}

	if _, err := session.Start(req.QuizID); err != nil {
		handleError(c, err)
		return
	}

	log.Printf("[AttemptHandler] Сессия %s: начата попытка по набору %s", session.ID(), req.QuizID)
	c.JSON(http.StatusCreated, dto.NewAttemptResponse(session.Snapshot()))
}

// GetAttempt возвращает текущее состояние попытки
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	session := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, dto.NewAttemptResponse(session.Snapshot()))
}

// RecordAnswer записывает или перезаписывает ответ
func (h *AttemptHandler) RecordAnswer(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := session.RecordAnswer(req.QuestionID, *req.Option); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": req.QuestionID, "option": *req.Option})
}

// ToggleMark переключает отметку вопроса
func (h *AttemptHandler) ToggleMark(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	marked, err := session.ToggleMark(req.QuestionID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": req.QuestionID, "marked": marked})
}

// EndAttempt завершает попытку и сразу возвращает итоги
func (h *AttemptHandler) EndAttempt(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req EndAttemptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	if _, err := session.End(req.EndTime); err != nil {
		handleError(c, err)
		return
	}

	quiz, ended, err := session.Ended()
	if err != nil {
		handleError(c, err)
		return
	}
	log.Printf("[AttemptHandler] Сессия %s: попытка по набору %s завершена", session.ID(), ended.QuizID)
	c.JSON(http.StatusOK, gin.H{
		"attempt": dto.NewAttemptResponse(session.Snapshot()),
		"score":   dto.NewScoreResponse(scoring.Score(quiz, ended), ended.Elapsed()),
	})
}

// SetAspirantName задает имя, печатаемое в отчете
func (h *AttemptHandler) SetAspirantName(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req AspirantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := session.SetAspirantName(req.Name); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aspirant_name": session.Snapshot().Attempt.AspirantName})
}

// GetScore возвращает итоги завершенной попытки
func (h *AttemptHandler) GetScore(c *gin.Context) {
	session := middleware.SessionFrom(c)

	quiz, ended, err := session.Ended()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScoreResponse(scoring.Score(quiz, ended), ended.Elapsed()))
}
