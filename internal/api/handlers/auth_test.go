package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicCredentials(t *testing.T) {
	app := fiber.New()

	var username, password string
	var ok bool
	app.Get("/test", func(c *fiber.Ctx) error {
		username, password, ok = basicCredentials(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("runner:s3cret:with:colons")))
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, "runner", username)
	assert.Equal(t, "s3cret:with:colons", password)
}

func TestBasicCredentialsRejectsMalformed(t *testing.T) {
	app := fiber.New()

	var ok bool
	app.Get("/test", func(c *fiber.Ctx) error {
		_, _, ok = basicCredentials(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, header := range []string{
		"",
		"Bearer abc",
		"Basic not-base64!!",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")),
	} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := app.Test(req)
		require.NoError(t, err)
		assert.False(t, ok, header)
	}
}
