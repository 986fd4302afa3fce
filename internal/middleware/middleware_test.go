package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	internal_i18n "github.com/Xenn-00/organisation-meister/internal/i18n"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLanguage(t *testing.T) {
	cases := map[string]string{
		"":                          "en",
		"de-DE,de;q=0.9,en;q=0.7":   "de",
		"en-US,en;q=0.9":            "en",
		"fr-FR,fr;q=0.9":            "en",
		"fr-FR,de;q=0.5":            "de",
		"not a language header ;;;": "en",
	}
	for header, want := range cases {
		assert.Equal(t, want, matchLanguage(header), "header %q", header)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("request_id").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(fiber.HeaderXRequestID)
	assert.True(t, strings.HasPrefix(generated, "OM-"))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "upstream-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-123", resp.Header.Get(fiber.HeaderXRequestID))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, strings.Repeat("x", 200))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderXRequestID), "OM-"))
}

func TestErrorHandler_FiberNotFound(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandlerMiddleware(internal_i18n.NewInitI18nService())})
	app.Use(RequestIDMiddleware(), AcceptLanguageMiddleware())

	req := httptest.NewRequest("GET", "/nope", nil)
	req.Header.Set("Accept-Language", "de")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Route nicht gefunden.")
	assert.Contains(t, string(body), app_errors.ErrNotFound)
}

func TestErrorHandler_PlainErrorIsInternal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandlerMiddleware(internal_i18n.NewInitI18nService())})
	app.Use(RequestIDMiddleware(), AcceptLanguageMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), app_errors.ErrInternal)
	assert.NotContains(t, string(body), assert.AnError.Error())
}
