package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

// SubmissionHandler handles HTTP requests for the submission lifecycle
type SubmissionHandler struct {
	service   *service.SubmissionService
	validator *validator.Validate
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /api/submission/create
func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	var req models.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	submission, _, err := h.service.Create(c.Context(), currentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusCreated, "submission created", models.NewSubmissionEntry(submission))
}

// Edit handles POST /api/submission/update
func (h *SubmissionHandler) Edit(c *fiber.Ctx) error {
	var req models.EditSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	submission, _, err := h.service.Edit(c.Context(), currentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "submission updated", models.NewSubmissionEntry(submission))
}

// Report handles POST /api/submission/report
func (h *SubmissionHandler) Report(c *fiber.Ctx) error {
	var req models.ReportSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.service.Report(c.Context(), currentUser(c), &req); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "submission reported", nil)
}

// ModCreate handles POST /api/submission/mod/create
func (h *SubmissionHandler) ModCreate(c *fiber.Ctx) error {
	var req models.ModCreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	submission, _, err := h.service.CreateForUser(c.Context(), currentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusCreated, "submission created", models.NewSubmissionEntry(submission))
}

// Restore handles POST /api/submission/mod/restore
func (h *SubmissionHandler) Restore(c *fiber.Ctx) error {
	var req models.IDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.service.Restore(c.Context(), currentUser(c), req.ID); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "submission restored", nil)
}

// Remove handles POST /api/submission/mod/remove
func (h *SubmissionHandler) Remove(c *fiber.Ctx) error {
	var req models.IDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if _, err := h.service.Remove(c.Context(), currentUser(c), req.ID); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "submission removed", nil)
}
