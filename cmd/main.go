package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"spreadsheet-analytics-server/config"
	_ "spreadsheet-analytics-server/docs"
	"spreadsheet-analytics-server/internal/handler"
	"spreadsheet-analytics-server/internal/parser"
	"spreadsheet-analytics-server/internal/repository"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/service"
	"spreadsheet-analytics-server/internal/worker"
)

// @title Spreadsheet-analytics-server
// @version 1.0
// @description REST API для загрузки таблиц и построения графиков по их данным

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := config.MigrateDatabase(&cfg.DatabaseConfig); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	cacheTTL := time.Duration(cfg.TTL.S3AndRedis) * time.Second

	userRepo := repository.NewUserRepository(db)
	jwtRepo := repository.NewJWTRepository(db)
	fileRepo := repository.NewFileRepository(db)
	rowRepo := repository.NewRowRepository(db)
	shareRepo := repository.NewShareRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	processingTimeout, err := time.ParseDuration(cfg.Worker.ProcessingTimeout)
	if err != nil {
		log.Printf("Неверный processing_timeout %q, используется 5m", cfg.Worker.ProcessingTimeout)
		processingTimeout = 5 * time.Minute
	}
	pool := worker.NewPool(cfg.Worker.Workers, cfg.Worker.QueueSize, processingTimeout)

	fileService := service.NewFileService(
		fileRepo, rowRepo, shareRepo, cacheRepo, userRepo,
		s3Service, parser.NewWorkbookParser(), pool,
		db, &cfg.Upload, cacheTTL,
	)
	analyticsService := service.NewAnalyticsService(fileRepo, rowRepo, shareRepo, cacheRepo, db)

	jwtService := security.NewJWTService(&cfg.JWT)
	userService := service.NewUserService(userRepo, jwtService, jwtRepo, db)
	authService := service.NewAuthenticationService(jwtRepo, jwtService, userRepo, db, &cfg.JWT)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	fileHandler := handler.NewFileHandler(fileService, &cfg.Upload)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, jwtRepo, cfg)
	setupUserRoutes(router, userHandler, jwtService, jwtRepo, cfg)
	setupFileRoutes(router, fileHandler, jwtService, jwtRepo, cfg)
	setupAnalyticsRoutes(router, analyticsHandler, jwtService, jwtRepo, cfg)

	runServer(ctx, srv, pool)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
			r.Get("/me", h.GetCurrentUsersUUID)
			r.Post("/refresh", h.RefreshToken)
		})
		r.Post("/", h.Login)
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.RegisterUser)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
			r.Get("/users/{uuid}", h.GetUser)
		})
	})
}

func setupFileRoutes(r chi.Router, h *handler.FileHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/files", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListFiles)
		r.Post("/", h.UploadFile)

		r.Route("/{file_id}", func(r chi.Router) {
			r.Get("/", h.GetFile)
			r.Put("/", h.UpdateFile)
			r.Delete("/", h.DeleteFile)
			r.Get("/data", h.GetFileData)
			r.Post("/share", h.ShareFile)
		})
	})
}

func setupAnalyticsRoutes(r chi.Router, h *handler.AnalyticsHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/analytics/{file_id}", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
		r.Get("/chart-data", h.GetChartData)
		r.Get("/columns", h.GetColumns)
		r.Get("/summary", h.GetSummary)
	})
}

func runServer(ctx context.Context, server *http.Server, pool *worker.Pool) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	}

	// дожидаемся фоновой обработки уже принятых файлов
	if err := pool.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке пула обработки: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
