package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kvuthe/ITO/internal/apperr"
)

// Envelope is the uniform response shape every endpoint returns.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data"`
	Errors     map[string]string `json:"errors"`
	Timestamp  int64             `json:"timestamp"`
	StatusCode int               `json:"status_code"`
}

// respond writes a success envelope.
func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Errors:     map[string]string{},
		Timestamp:  time.Now().Unix(),
		StatusCode: status,
	})
}

// respondError maps a service error onto a failure envelope. Validation maps
// to 400, auth failures to 401/403, lookups to 404; everything else is a 500
// with the detail kept out of the response body.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	fieldErrors := map[string]string{}

	var verrs validator.ValidationErrors
	var appErr *apperr.Error

	switch {
	case errors.As(err, &verrs):
		status = fiber.StatusBadRequest
		message = "validation failed"
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &appErr):
		message = appErr.Message
		switch {
		case errors.Is(err, apperr.ErrValidation):
			status = fiber.StatusBadRequest
		case errors.Is(err, apperr.ErrUnauthorized):
			status = fiber.StatusUnauthorized
		case errors.Is(err, apperr.ErrForbidden):
			status = fiber.StatusForbidden
		case errors.Is(err, apperr.ErrNotFound):
			status = fiber.StatusNotFound
		default:
			message = "internal server error"
		}
	}

	return c.Status(status).JSON(Envelope{
		Success:    false,
		Message:    message,
		Data:       nil,
		Errors:     fieldErrors,
		Timestamp:  time.Now().Unix(),
		StatusCode: status,
	})
}
