package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/service"
)

const userLocal = "currentUser"

// RequireAuth resolves the bearer token and stores the account on the request
// context. Requests without a valid token never reach the handler.
func RequireAuth(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := bearerToken(c)
		if bearer == "" {
			return respondError(c, apperr.Unauthorized("missing bearer token"))
		}

		user, err := authService.VerifyAccess(c.Context(), bearer)
		if err != nil {
			return respondError(c, err)
		}
		if user.Role == models.RoleDenied {
			return respondError(c, apperr.Forbidden("this account has been disabled"))
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// currentUser returns the account stored by RequireAuth.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
