package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/service/attempt"
)

// Routes собирает обработчики и middleware для регистрации маршрутов
type Routes struct {
	Registry    *attempt.Registry
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
	// LoginRateLimit — попыток входа администратора в минуту с одного IP
	LoginRateLimit int

	Session *SessionHandler
	Catalog *CatalogHandler
	Attempt *AttemptHandler
	Report  *ReportHandler
	Admin   *AdminHandler
	WS      *WSHandler
}

// Register регистрирует все маршруты API
func (r *Routes) Register(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": r.Registry.Len()})
	})

	withSession := middleware.ExtractSession(r.Registry, "sid")

	api := router.Group("/api")
	{
		api.POST("/sessions", r.RateLimiter.LimitByIP(middleware.SessionCreateRateLimitConfig()), r.Session.CreateSession)
		api.DELETE("/sessions/:sid", withSession, r.Session.DeleteSession)

		api.GET("/subjects", r.Catalog.ListSubjects)
		api.GET("/subjects/:subjectID/quiz-sets", r.Catalog.ListQuizSets)
		api.GET("/quizzes", r.Catalog.ListQuizzes)

		attemptGroup := api.Group("/sessions/:sid/attempt", withSession)
		{
			attemptGroup.POST("", r.Attempt.StartAttempt)
			attemptGroup.GET("", r.Attempt.GetAttempt)
			attemptGroup.PUT("/answers", r.Attempt.RecordAnswer)
			attemptGroup.POST("/marks", r.Attempt.ToggleMark)
			attemptGroup.POST("/end", r.Attempt.EndAttempt)
			attemptGroup.PUT("/aspirant", r.Attempt.SetAspirantName)
			attemptGroup.GET("/score", r.Attempt.GetScore)
			attemptGroup.GET("/report", r.Report.DownloadReport)
			attemptGroup.POST("/report/email", r.Report.EmailReport)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", r.RateLimiter.Limit(middleware.AdminLoginRateLimitConfig(r.LoginRateLimit)), r.Admin.Login)

			protected := admin.Group("", r.Auth.AdminOnly())
			protected.POST("/subjects", r.Admin.CreateSubject)
			protected.POST("/quizzes", r.Admin.CreateQuiz)
		}
	}

	router.GET("/ws/sessions/:sid/attempt", withSession, r.WS.HandleAttemptStream)
}
