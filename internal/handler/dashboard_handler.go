package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// DashboardHandler wires the role-specific dashboard routes and the public
// landing statistics.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Stats serves the public landing-page counters.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "stats retrieved", h.service.SiteStats(c.Context()))
}

// Student serves the student dashboard.
func (h *DashboardHandler) Student(c *fiber.Ctx) error {
	dashboard, err := h.service.StudentDashboard(c.Context(), identityFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

// Teacher serves the teacher dashboard.
func (h *DashboardHandler) Teacher(c *fiber.Ctx) error {
	dashboard, err := h.service.TeacherDashboard(c.Context(), identityFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("dashboard operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "something went wrong")
}
