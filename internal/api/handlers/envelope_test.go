package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kvuthe/ITO/internal/apperr"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, Envelope) {
	t.Helper()

	app := fiber.New()
	app.Get("/test", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestRespondSuccessEnvelope(t *testing.T) {
	resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, "ok", fiber.Map{"value": 1})
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, "ok", envelope.Message)
	assert.Equal(t, http.StatusOK, envelope.StatusCode)
	assert.NotZero(t, envelope.Timestamp)
	assert.Empty(t, envelope.Errors)
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.Unauthorized("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Consistency("ranking failed", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
			return respondError(c, tc.err)
		})

		assert.Equal(t, tc.status, resp.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, tc.status, envelope.StatusCode)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	_, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return respondError(c, apperr.Consistency("scope reload failed", nil))
	})

	assert.Equal(t, "internal server error", envelope.Message)
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()

	var got string
	app.Get("/test", func(c *fiber.Ctx) error {
		got = bearerToken(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, got)
}
