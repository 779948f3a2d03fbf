package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

// AuthHandler handles HTTP requests for token issuance and rotation
type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateTokens handles POST /api/tokens. Credentials arrive as HTTP Basic
// auth; a fresh token pair is issued on success.
func (h *AuthHandler) CreateTokens(c *fiber.Ctx) error {
	username, password, ok := basicCredentials(c)
	if !ok {
		return respondError(c, apperr.Unauthorized("missing credentials"))
	}

	user, err := h.service.Login(c.Context(), username, password)
	if err != nil {
		return respondError(c, err)
	}

	pair, err := h.service.IssueTokens(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusCreated, "tokens issued", pair)
}

// RefreshTokens handles PUT /api/tokens/refresh. The expired access token
// arrives as the bearer header, the refresh token in the body.
func (h *AuthHandler) RefreshTokens(c *fiber.Ctx) error {
	var req models.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, err)
	}

	bearer := bearerToken(c)
	if bearer == "" {
		return respondError(c, apperr.Unauthorized("missing bearer token"))
	}

	pair, err := h.service.Refresh(c.Context(), bearer, req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "tokens refreshed", pair)
}

// DeleteTokens handles DELETE /api/tokens. Revokes the bearer's token pair.
func (h *AuthHandler) DeleteTokens(c *fiber.Ctx) error {
	bearer := bearerToken(c)
	if bearer == "" {
		return respondError(c, apperr.Unauthorized("missing bearer token"))
	}

	if err := h.service.Revoke(c.Context(), bearer); err != nil {
		return respondError(c, err)
	}

	return respond(c, fiber.StatusOK, "tokens revoked", nil)
}

// basicCredentials decodes an Authorization: Basic header.
func basicCredentials(c *fiber.Ctx) (username, password string, ok bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}

	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
