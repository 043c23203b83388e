package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/yourusername/examine-api/internal/domain/entity"
	"github.com/yourusername/examine-api/internal/handler/dto"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/service/attempt"
	"github.com/yourusername/examine-api/internal/websocket"
)

// WSHandler отдает поток состояния попытки
type WSHandler struct {
	registry       *attempt.Registry
	config         websocket.ClientConfig
	allowedOrigins []string
}

// NewWSHandler создает новый обработчик WebSocket.
// Пустой allowedOrigins разрешает любой Origin.
func NewWSHandler(registry *attempt.Registry, config websocket.ClientConfig, allowedOrigins []string) *WSHandler {
	return &WSHandler{registry: registry, config: config, allowedOrigins: allowedOrigins}
}

func (h *WSHandler) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Если Origin пустой - это не браузерный клиент (мобильное приложение, curl и т.д.)
			if origin == "" || len(h.allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}

			log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
			return false
		},
	}
}

// HandleAttemptStream раз в секунду присылает состояние попытки (таймер).
// После завершения попытки отправляется ATTEMPT_ENDED и соединение закрывается.
func (h *WSHandler) HandleAttemptStream(c *gin.Context) {
	session := middleware.SessionFrom(c)

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		log.Printf("WebSocket: upgrade failed for session %s: %v", session.ID(), err)
		return
	}

	client := websocket.NewClient(conn, session.ID(), h.config)
	client.Stream(func() (websocket.Event, bool) {
		if _, err := h.registry.Get(session.ID()); err != nil {
			return websocket.Event{Type: websocket.SESSION_CLOSED}, true
		}

		snap := session.Snapshot()
		status := gin.H{
			"state":           snap.State,
			"elapsed_seconds": int64(snap.Elapsed.Seconds()),
		}
		if snap.Attempt != nil {
			status["quiz_id"] = snap.Attempt.QuizID
			status["answered"] = len(snap.Attempt.Answers)
			status["marked"] = len(snap.Attempt.Marked)
		}
		if snap.Quiz != nil {
			status["total_questions"] = snap.Quiz.QuestionCount()
		}

		if snap.State == entity.AttemptEnded {
			return websocket.Event{Type: websocket.ATTEMPT_ENDED, Data: dto.NewAttemptResponse(snap)}, true
		}
		return websocket.Event{Type: websocket.ATTEMPT_STATUS, Data: status}, false
	})
}
