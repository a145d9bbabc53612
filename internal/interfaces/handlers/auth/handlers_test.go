package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/auth"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, map[string]string) {
	db := testutil.OpenDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codes := map[string]string{}
	store := otp.NewRedisStore(rdb)
	store.Deliver = func(_ context.Context, phone, code string) error {
		codes[phone] = code
		return nil
	}
	tokens, err := token.NewIssuer("0123456789abcdef0123", time.Hour)
	require.NoError(t, err)

	h := &Handlers{Service: authsvc.NewService(db, store, tokens, "https://cdn.example.com")}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.Locale())
	app.Post("/check-account", h.CheckAccount)
	app.Post("/resend-otp", h.ResendOTP)
	app.Post("/verify-otp", h.VerifyOTP)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/social-login", h.SocialLogin)
	return app, codes
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCheckAccount_Branches(t *testing.T) {
	app, codes := setupApp(t)

	status, body := post(t, app, "/check-account", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, authsvc.MsgEmailOrPhone, body["message"])

	status, body = post(t, app, "/check-account", map[string]string{"email": "new@example.com"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, authsvc.MsgCreateAccount, body["message"])

	status, _ = post(t, app, "/register", map[string]string{
		"email": "jane@example.com", "first_name": "Jane", "last_name": "Doe",
		"password": "secret1", "login_type": "EMAIL",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = post(t, app, "/check-account", map[string]string{"email": "Jane@Example.com"})
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "Welcome back, Jane", body["message"])

	status, body = post(t, app, "/check-account", map[string]string{"country_code": "+971", "phone_number": "0501234567"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["otp_sid"])
	assert.Len(t, codes["+971501234567"], 6)
}

func TestVerifyOTP(t *testing.T) {
	app, codes := setupApp(t)
	phone := map[string]string{"country_code": "+971", "phone_number": "501234567"}

	status, _ := post(t, app, "/resend-otp", phone)
	require.Equal(t, fiber.StatusOK, status)
	code := codes["+971501234567"]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	status, body := post(t, app, "/verify-otp", map[string]string{"country_code": "+971", "phone_number": "501234567", "otp": wrong})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, authsvc.MsgIncorrectOTP, body["message"])

	status, body = post(t, app, "/verify-otp", map[string]string{"country_code": "+971", "phone_number": "501234567", "otp": code})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, otp.StatusApproved, body["status"])

	status, _ = post(t, app, "/verify-otp", map[string]string{"country_code": "+1", "phone_number": "5550001111", "otp": "123456"})
	assert.Equal(t, fiber.StatusGone, status)
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)
	reg := map[string]string{
		"email": "jane@example.com", "first_name": "Jane", "last_name": "Doe", "password": "secret1",
		"login_type": "EMAIL", "country_code": "+44", "phone_number": "7700900123",
	}

	status, body := post(t, app, "/register", reg)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "447700900123", user["username"])
	assert.NotContains(t, user, "password")

	status, _ = post(t, app, "/register", reg)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = post(t, app, "/register", map[string]string{"login_type": "EMAIL"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "email")

	status, body = post(t, app, "/login", map[string]string{"email": "jane@example.com", "password": "secret1"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["access_token"])

	status, _ = post(t, app, "/login", map[string]string{"email": "jane@example.com", "password": "nope12"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestSocialLogin(t *testing.T) {
	app, _ := setupApp(t)

	status, body := post(t, app, "/social-login", map[string]string{"login_type": "GOOGLE", "social_id": "g-1"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, authsvc.MsgCreateAccount, body["message"])

	status, _ = post(t, app, "/register", map[string]string{
		"email": "sam@example.com", "first_name": "Sam", "last_name": "Lee",
		"login_type": "GOOGLE", "social_id": "g-1", "social_token": "tok",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = post(t, app, "/social-login", map[string]string{"login_type": "GOOGLE", "social_id": "g-1"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCheckAccount_InvalidBody(t *testing.T) {
	app, _ := setupApp(t)
	req := httptest.NewRequest("POST", "/check-account", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
