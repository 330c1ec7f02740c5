package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/baholash/baholash-api/internal/dto"
	"github.com/baholash/baholash-api/internal/ingest"
	"github.com/baholash/baholash-api/internal/service"
	"github.com/baholash/baholash-api/internal/utils"
)

// EvaluationHandler exposes the session and evaluation endpoints backing the
// browser form.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id/student", h.updateStudent)
	router.Put("/:id/grading", h.updateGrading)
	router.Post("/:id/document", h.uploadDocument)
	router.Post("/:id/evaluate", h.evaluate)
	router.Post("/:id/reset", h.reset)
}

func (h *EvaluationHandler) create(c *fiber.Ctx) error {
	session := h.service.CreateSession(c.Context())
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session created", session)
}

func (h *EvaluationHandler) get(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *EvaluationHandler) updateStudent(c *fiber.Ctx) error {
	var payload dto.StudentInfoRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.UpdateStudent(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "student updated", session)
}

func (h *EvaluationHandler) updateGrading(c *fiber.Ctx) error {
	var payload dto.GradingConfigRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.UpdateGrading(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "grading updated", session)
}

func (h *EvaluationHandler) uploadDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	session, err := h.service.AttachDocument(c.Context(), c.Params("id"), file)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "document ingested", session)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	session, err := h.service.Evaluate(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "evaluation completed", session)
}

func (h *EvaluationHandler) reset(c *fiber.Ctx) error {
	session, err := h.service.Reset(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session reset", session)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrEvaluationInFlight):
		return utils.SendError(c, fiber.StatusConflict, "evaluation already in progress")
	case errors.Is(err, service.ErrIncompleteForm):
		return utils.SendError(c, fiber.StatusBadRequest, service.MsgIncompleteForm)
	case errors.Is(err, ingest.ErrDocumentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, service.MsgDocumentTooLarge)
	case errors.Is(err, ingest.ErrExtractionFailed):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, service.MsgExtractionFailed)
	case errors.Is(err, service.ErrSubmissionFailed):
		return utils.SendError(c, fiber.StatusBadGateway, service.MsgSubmissionFailed)
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
