package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

// AccountHandler handles HTTP requests for accounts and profiles
type AccountHandler struct {
	service   *service.AccountService
	validator *validator.Validate
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /api/users/create
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req models.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	user, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusCreated, "account created", models.NewUserEntry(user))
}

// Me handles GET /api/me
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	user := currentUser(c)

	entry := models.NewUserEntry(user)
	entry.Categories = user.Categories()
	return respond(c, fiber.StatusOK, "account", entry)
}

// Edit handles POST /api/me/edit
func (h *AccountHandler) Edit(c *fiber.Ctx) error {
	var req models.EditAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	user, err := h.service.Edit(c.Context(), currentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	entry := models.NewUserEntry(user)
	entry.Categories = user.Categories()
	return respond(c, fiber.StatusOK, "account updated", entry)
}

// Profile handles GET /api/users/profile/:username
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return respondError(c, apperr.Validation("username is required"))
	}

	profile, err := h.service.Profile(c.Context(), username)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "profile", profile)
}
