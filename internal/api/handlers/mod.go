package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

// ModHandler handles HTTP requests for the moderation surface
type ModHandler struct {
	accountService     *service.AccountService
	leaderboardService *service.LeaderboardService
	validator          *validator.Validate
}

// NewModHandler creates a new moderation handler
func NewModHandler(accountService *service.AccountService, leaderboardService *service.LeaderboardService) *ModHandler {
	return &ModHandler{
		accountService:     accountService,
		leaderboardService: leaderboardService,
		validator:          validator.New(),
	}
}

// Queue handles GET /api/mod/queue
func (h *ModHandler) Queue(c *fiber.Ctx) error {
	entries, err := h.accountService.VerificationQueue(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "verification queue", entries)
}

// Verify handles POST /api/mod/verify
func (h *ModHandler) Verify(c *fiber.Ctx) error {
	var req models.IDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.accountService.Verify(c.Context(), currentUser(c), req.ID); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "account verified", nil)
}

// Deny handles POST /api/mod/deny
func (h *ModHandler) Deny(c *fiber.Ctx) error {
	var req models.IDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.accountService.Deny(c.Context(), currentUser(c), req.ID); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "account denied", nil)
}

// Reported handles GET /api/submission/reported
func (h *ModHandler) Reported(c *fiber.Ctx) error {
	if !currentUser(c).IsModerator() {
		return respondError(c, apperr.Forbidden("you are not authorized to perform this action"))
	}

	entries, err := h.leaderboardService.Reported(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "reported submissions", entries)
}
