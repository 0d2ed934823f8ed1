package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/database"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/router"
	"github.com/noah-isme/lms-go-api/internal/security"
	"github.com/noah-isme/lms-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	hasher := security.NewHasher()
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	denylist := security.NewTokenDenylist(redisClient)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, hasher, tokens, denylist, validate, logger)
	catalogService := service.NewCatalogService(courseRepo, topicRepo, questionRepo, enrollmentRepo, submissionRepo, activityService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, questionRepo, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, topicRepo, questionRepo, enrollmentRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	adminHandler := handler.NewAdminHandler(authService, activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CatalogHandler:    catalogHandler,
		EnrollmentHandler: enrollmentHandler,
		SubmissionHandler: submissionHandler,
		DashboardHandler:  dashboardHandler,
		AdminHandler:      adminHandler,
		JWTMiddleware:     middleware.JWTProtected(tokens, denylist),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
