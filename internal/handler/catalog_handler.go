package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// CatalogHandler wires course/topic/question HTTP routes.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the catalog endpoints. Public reads carry no guard, the
// drill-down reads require a session and mutations additionally require the
// teacher role. Guards are attached per route because all three tiers share
// the /courses and /topics prefixes.
func (h *CatalogHandler) Register(router fiber.Router, protect fiber.Handler, teacherGuards ...fiber.Handler) {
	router.Get("/courses", h.listCourses)
	router.Get("/courses/:id", h.getCourse)
	router.Get("/topics", h.listTopics)

	router.Get("/courses/:id/topics", protect, h.listCourseTopics)
	router.Get("/topics/:id/questions", protect, h.listTopicQuestions)

	router.Post("/courses", guarded(teacherGuards, h.createCourse)...)
	router.Delete("/courses/:id", guarded(teacherGuards, h.deleteCourse)...)
	router.Post("/courses/:id/topics", guarded(teacherGuards, h.createTopic)...)
	router.Delete("/topics/:id", guarded(teacherGuards, h.deleteTopic)...)
	router.Post("/topics/:id/questions", guarded(teacherGuards, h.createQuestion)...)
	router.Delete("/questions/:id", guarded(teacherGuards, h.deleteQuestion)...)
}

func (h *CatalogHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) getCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.service.GetCourse(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CatalogHandler) listTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "topics retrieved", topics)
}

func (h *CatalogHandler) listCourseTopics(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	topics, err := h.service.ListCourseTopics(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topics retrieved", topics)
}

func (h *CatalogHandler) listTopicQuestions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.service.ListTopicQuestions(c.Context(), identityFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *CatalogHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.CreateCourse(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CatalogHandler) deleteCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCourse(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

func (h *CatalogHandler) createTopic(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TopicCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	topic, err := h.service.CreateTopic(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "topic created", topic)
}

func (h *CatalogHandler) deleteTopic(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteTopic(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topic deleted", fiber.Map{"id": id})
}

func (h *CatalogHandler) createQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.CreateQuestion(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question created", question)
}

func (h *CatalogHandler) deleteQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteQuestion(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question deleted", fiber.Map{"id": id})
}

func (h *CatalogHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrTopicNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "topic not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrCourseTitleTaken):
		return utils.SendError(c, fiber.StatusConflict, "course title already exists")
	case errors.Is(err, service.ErrTopicTitleTaken):
		return utils.SendError(c, fiber.StatusConflict, "topic title already exists")
	case errors.Is(err, service.ErrCourseHasDependents),
		errors.Is(err, service.ErrTopicHasQuestions),
		errors.Is(err, service.ErrQuestionHasSubmissions):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotCourseOwner):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return h.internalError(c, err)
}

func (h *CatalogHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("catalog operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "something went wrong")
}
