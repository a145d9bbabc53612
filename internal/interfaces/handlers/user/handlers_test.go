package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	usersvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/user"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOTP struct{ code string }

func (f *fakeOTP) Send(context.Context, string) (string, error) { return "VE1", nil }

func (f *fakeOTP) Verify(_ context.Context, _ string, code string) (otp.Result, error) {
	if code == f.code {
		return otp.Result{Status: otp.StatusApproved, Valid: true}, nil
	}
	return otp.Result{Status: otp.StatusPending}, nil
}

type memStore struct{ objects map[string][]byte }

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	m.objects[key] = data
	return err
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *domain.User, *memStore) {
	db := testutil.OpenDB(t)
	u := testutil.CreateUser(t, db, "me@example.com")
	store := &memStore{objects: map[string][]byte{}}
	svc := usersvc.NewService(db, uploads.NewService(store, "https://cdn.example.com"), &fakeOTP{code: "123456"}, "https://cdn.example.com")
	h := &Handlers{Service: svc}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.WithUser(u))
	app.Get("/my-profile", h.MyProfile)
	app.Post("/profile-photo", h.ProfilePhoto)
	app.Put("/phone-number", h.PhoneNumber)
	return app, db, u, store
}

func decode(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestMyProfile(t *testing.T) {
	app, _, u, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/my-profile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp.Body)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, u.UID, data[0].(map[string]interface{})["uid"])
}

func TestProfilePhoto(t *testing.T) {
	app, db, u, store := setupApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", "me.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/profile-photo", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode(t, resp.Body)
	url := body["data"].(map[string]interface{})["avatar_url"].(string)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/user-profile-photos/"))
	assert.Len(t, store.objects, 1)

	var row domain.User
	require.NoError(t, db.First(&row, u.ID).Error)
	require.NotNil(t, row.Avatar)

	req = httptest.NewRequest("POST", "/profile-photo", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPhoneNumber(t *testing.T) {
	app, _, _, _ := setupApp(t)
	put := func(body string) (int, map[string]interface{}) {
		req := httptest.NewRequest("PUT", "/phone-number", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode, decode(t, resp.Body)
	}

	status, body := put(`{"country_code":"+91","phone_number":"9876543210","otp":"000000"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Incorrect OTP", body["message"])

	status, body = put(`{"country_code":"+91","phone_number":"9876543210","otp":"123456"}`)
	assert.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "9876543210", data["phone_number"])
	assert.Equal(t, true, data["is_verified"])
}
