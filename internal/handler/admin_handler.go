package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// AdminHandler wires the admin-only account management routes.
type AdminHandler struct {
	auth     service.AuthService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(auth service.AuthService, activity service.ActivityService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		activity: activity,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin endpoints to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Get("/users/:id", h.getUser)
	router.Delete("/users/:id", h.deleteUser)
	router.Post("/users/:username/promote", h.promoteUser)
	router.Get("/activity", h.listActivity)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.auth.List(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *AdminHandler) getUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.auth.GetByID(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	h.activity.Record(c.Context(), identityFromContext(c), "user.deleted", "user", &id, nil)

	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}

func (h *AdminHandler) promoteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "username required")
	}

	if err := h.auth.PromoteToAdmin(c.Context(), username); err != nil {
		return h.handleError(c, err)
	}

	h.activity.Record(c.Context(), identityFromContext(c), "user.promoted", "user", nil, map[string]interface{}{"username": username})

	return utils.SendSuccess(c, "user promoted", fiber.Map{"username": username})
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := repository.ActivityLogFilter{
		Page:     page,
		PageSize: pageSize,
		Action:   c.Query("action"),
	}

	entries, total, err := h.activity.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithMeta(c, "activity retrieved", entries, fiber.Map{"total": total})
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrUserHasRecords):
		return utils.SendError(c, fiber.StatusConflict, "user has dependent records")
	}

	return h.internalError(c, err)
}

func (h *AdminHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("admin operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "something went wrong")
}
