package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yourusername/examine-api/internal/auth"
	"github.com/yourusername/examine-api/internal/config"
	"github.com/yourusername/examine-api/internal/domain/repository"
	"github.com/yourusername/examine-api/internal/handler"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/repository/memory"
	pgRepo "github.com/yourusername/examine-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/examine-api/internal/repository/redis"
	"github.com/yourusername/examine-api/internal/service"
	"github.com/yourusername/examine-api/internal/service/attempt"
	"github.com/yourusername/examine-api/internal/storage"
	ws "github.com/yourusername/examine-api/internal/websocket"
	jwtauth "github.com/yourusername/examine-api/pkg/auth"
	"github.com/yourusername/examine-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Банк вопросов: Postgres или память процесса
	var bank repository.QuestionBank
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Банк вопросов в памяти (database.driver=memory), данные не сохраняются между запусками")
		bank = memory.NewQuestionBank()
	default:
		db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), gin.Mode() != gin.ReleaseMode)
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		if cfg.Database.MigrationsPath != "" {
			if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
				log.Printf("Failed to migrate database: %v", err)
				os.Exit(1)
			}
		}
		bank = pgRepo.NewQuestionBankRepo(db)
	}

	// Redis опционален: без него нет общего кеша каталога и лимитов
	var redisClient redis.UniversalClient
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err = database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")

		cacheRepo, err = redisRepo.NewCatalogCache(redisClient)
		if err != nil {
			log.Printf("Failed to initialize catalog cache: %v", err)
			os.Exit(1)
		}
	}

	// Архив отчетов
	var archive storage.ReportArchive
	switch cfg.Storage.Backend {
	case "fs":
		fsArchive, err := storage.NewFSArchive(cfg.Storage.FSBaseDir)
		if err != nil {
			log.Printf("Failed to initialize report archive: %v", err)
			os.Exit(1)
		}
		archive = fsArchive
	case "supabase":
		archive = storage.NewSupabaseArchive(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)
	}

	// Почта
	var mailer service.ReportMailer = &service.NoopReportMailer{}
	if cfg.Email.ResendAPIKey != "" {
		resendMailer, err := service.NewResendReportMailer(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize mailer: %v", err)
			os.Exit(1)
		}
		mailer = resendMailer
	}

	// Доступ администратора
	authenticator, err := auth.NewSharedSecretAuthenticator(cfg.Admin.PasswordHash, cfg.Admin.Password)
	if err != nil {
		log.Printf("Failed to initialize authenticator: %v", err)
		os.Exit(1)
	}
	tokens, err := jwtauth.NewAdminTokenService(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize token service: %v", err)
		os.Exit(1)
	}

	// Сервисы
	catalogService := service.NewCatalogService(bank, cacheRepo, cfg.Redis.CatalogTTL)
	reportService := service.NewReportService(service.ReportBranding{
		ProductName: cfg.Report.ProductName,
		Tagline:     cfg.Report.Tagline,
		Credits:     cfg.Report.Credits,
		FontPath:    cfg.Report.FontPath,
	}, nil, archive, mailer)
	adminService := service.NewAdminService(authenticator, tokens)
	registry := attempt.NewRegistry(nil)

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweepSessions(ctx, registry, cfg.Session)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Report-Archive-URL", "X-Report-Archive-Warning"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes := &handler.Routes{
		Registry:       registry,
		Auth:           middleware.NewAuthMiddleware(tokens),
		RateLimiter:    middleware.NewRateLimiter(redisClient),
		LoginRateLimit: cfg.Admin.LoginRateLimit,
		Session:        handler.NewSessionHandler(registry, catalogService),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Attempt:        handler.NewAttemptHandler(catalogService),
		Report:         handler.NewReportHandler(reportService),
		Admin:          handler.NewAdminHandler(adminService, catalogService),
		WS:             handler.NewWSHandler(registry, ws.DefaultClientConfig(), cfg.Server.AllowedOrigins),
	}
	routes.Register(router)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	log.Println("Server exited properly")
}

// sweepSessions периодически удаляет неактивные сессии
func sweepSessions(ctx context.Context, registry *attempt.Registry, cfg config.SessionConfig) {
	if cfg.IdleTimeout <= 0 || cfg.SweepInterval <= 0 {
		log.Println("Очистка неактивных сессий отключена")
		return
	}

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Sweep(cfg.IdleTimeout)
		}
	}
}
