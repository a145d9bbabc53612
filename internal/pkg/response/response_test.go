package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h fiber.Handler, lang string) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.SetUserContext(i18n.WithTag(c.UserContext(), i18n.Negotiate(lang)))
		return h(c)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestFromError_Kinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.NotFound("Property not found"), fiber.StatusNotFound, "Property not found"},
		{apperr.Unauthorized("Invalid credentials"), fiber.StatusUnauthorized, "Invalid credentials"},
		{apperr.Forbidden("Nope"), fiber.StatusForbidden, "Nope"},
		{apperr.Conflict("Email already exists"), fiber.StatusConflict, "Email already exists"},
		{apperr.Gone("OTP expired"), fiber.StatusGone, "OTP expired"},
		{apperr.Upstream("Failed to send OTP", errors.New("timeout")), fiber.StatusBadRequest, "Failed to send OTP"},
		{fmt.Errorf("db: %w", errors.New("broken pipe")), fiber.StatusInternalServerError, MessageSomethingWrong},
	}
	for _, tc := range cases {
		status, body := serve(t, func(c *fiber.Ctx) error { return FromError(c, tc.err) }, "")
		assert.Equal(t, tc.status, status, tc.msg)
		assert.Equal(t, tc.msg, body["message"])
		assert.NotContains(t, body, "error")
	}
}

func TestFromError_ValidationDetails(t *testing.T) {
	status, body := serve(t, func(c *fiber.Ctx) error {
		return FromError(c, apperr.Field("name", "is required"))
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, map[string]interface{}{"name": "is required"}, body["error"])
}

func TestJSON_TranslatesAndOmitsEmptyMessage(t *testing.T) {
	_, body := serve(t, func(c *fiber.Ctx) error {
		return Success(c, "Property updated successfully", fiber.Map{"id": 1})
	}, "ar")
	assert.Equal(t, "تم تحديث العقار بنجاح", body["message"])

	status, body := serve(t, func(c *fiber.Ctx) error {
		return JSON(c, fiber.StatusOK, "", "properties", []int{})
	}, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "message")
	assert.Equal(t, []interface{}{}, body["properties"])
}

func TestInvalidBody(t *testing.T) {
	status, body := serve(t, InvalidBody, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MessageInvalidBody, body["message"])
}
