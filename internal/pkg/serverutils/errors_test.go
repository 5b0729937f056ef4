package serverutils

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestApiErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCollaboratorError("provider call failed", cause)

	assert.Equal(t, "provider call failed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/input", func(c *fiber.Ctx) error { return NewInputError("bad claim") })
	app.Get("/missing", func(c *fiber.Ctx) error { return NewNotFoundError("no session") })
	app.Get("/collab", func(c *fiber.Ctx) error { return NewCollaboratorError("upstream down", nil) })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("unexpected") })

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/input", wantCode: 400, wantBody: "bad claim"},
		{path: "/missing", wantCode: 404, wantBody: "no session"},
		{path: "/collab", wantCode: 500, wantBody: "upstream down"},
		{path: "/plain", wantCode: 500, wantBody: "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantBody)
			assert.Contains(t, string(body), `"success":false`)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		ClaimText string `validate:"required"`
		Kind      string `validate:"omitempty,oneof=image video"`
	}

	assert.NoError(t, ValidateRequest(req{ClaimText: "x"}))

	err := ValidateRequest(req{})
	var apiErr *ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, KindInput, apiErr.Kind)
		assert.Contains(t, apiErr.Message, "ClaimText")
	}

	assert.Error(t, ValidateRequest(req{ClaimText: "x", Kind: "audio"}))
}
