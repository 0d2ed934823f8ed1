package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CatalogHandler    *handler.CatalogHandler
	EnrollmentHandler *handler.EnrollmentHandler
	SubmissionHandler *handler.SubmissionHandler
	DashboardHandler  *handler.DashboardHandler
	AdminHandler      *handler.AdminHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Credential endpoints are rate limited; session endpoints sit behind the
	// JWT guard on the same prefix.
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth, middleware.RateLimit("auth", 20, time.Minute), jwtMiddleware)
	}

	if deps.DashboardHandler != nil {
		api.Get("/stats", deps.DashboardHandler.Stats)
	}

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api, jwtMiddleware, jwtMiddleware, middleware.RequireRole(models.RoleTeacher, "admin"))
	}

	// Student surface.
	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.SubmissionHandler.Register(submissions)
	}

	// Role dashboards.
	if deps.DashboardHandler != nil {
		api.Get("/dashboard/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent), deps.DashboardHandler.Student)
		api.Get("/dashboard/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher), deps.DashboardHandler.Teacher)
	}

	// Admin surface.
	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin"))
		deps.AdminHandler.Register(admin)
	}
}
