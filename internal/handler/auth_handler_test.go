package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/router"
	"github.com/noah-isme/lms-go-api/internal/security"
	"github.com/noah-isme/lms-go-api/internal/service"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func setupTestApp(t *testing.T) testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Course{}, &models.Topic{}, &models.Question{},
		&models.Enrollment{}, &models.Submission{}, &models.ActivityLog{},
	))

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	hasher := &security.BcryptHasher{Cost: bcrypt.MinCost}
	tokens := security.NewTokenManager("test-secret", time.Hour)
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
	dashboardService := service.NewDashboardService(userRepo, courseRepo, topicRepo, questionRepo, enrollmentRepo, submissionRepo, redisClient, time.Minute, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", JWTSecret: "test-secret"}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CatalogHandler:    handler.NewCatalogHandler(catalogService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		AdminHandler:      handler.NewAdminHandler(authService, activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(tokens, denylist),
	})

	return testApp{app: app, db: db}
}

func (a testApp) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func requestPath(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func (a testApp) register(t *testing.T, username, role string) {
	t.Helper()

	resp := a.request(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
		"full_name":        "Test " + username,
		"role":             role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func (a testApp) login(t *testing.T, username string) string {
	t.Helper()

	resp := a.request(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body.Data.Token)

	return body.Data.Token
}

func TestAuthEndpointsRegisterLoginLogout(t *testing.T) {
	a := setupTestApp(t)

	a.register(t, "alice", "student")

	// Duplicate username conflicts.
	resp := a.request(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":         "alice",
		"email":            "fresh@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
		"full_name":        "Second Alice",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	token := a.login(t, "alice")

	resp = a.request(t, fiber.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me struct {
		Data struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &me)
	require.Equal(t, "alice", me.Data.Username)
	require.Equal(t, "student", me.Data.Role)

	resp = a.request(t, fiber.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The revoked token no longer opens the session surface.
	resp = a.request(t, fiber.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthEndpointsInvalidCredentials(t *testing.T) {
	a := setupTestApp(t)
	a.register(t, "alice", "student")

	resp := a.request(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = a.request(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "nobody",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
