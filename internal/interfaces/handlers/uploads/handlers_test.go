package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	uploadsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return err
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func setupApp() (*fiber.App, *memStore) {
	store := &memStore{objects: map[string][]byte{}}
	h := &Handlers{Service: uploadsvc.NewService(store, "https://cdn.example.com")}
	app := fiber.New()
	app.Post("/upload-images", h.UploadImages)
	app.Post("/remove-images", h.RemoveImages)
	return app, store
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func TestUploadAndRemoveImages(t *testing.T) {
	app, store := setupApp()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("images", "room.png")
	require.NoError(t, err)
	_, _ = part.Write(pngBytes(t))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload-images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data []uploadsvc.StoredImage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	key := body.Data[0].ImageKey
	assert.True(t, strings.HasPrefix(key, uploadsvc.DirPropertyFiles+"/"))
	assert.Equal(t, "https://cdn.example.com/"+key, body.Data[0].ImageURL)
	assert.Contains(t, store.objects, key)
	assert.Greater(t, len(store.objects), 1, "variants stored next to the original")

	raw, _ := json.Marshal(map[string][]string{"keys": {key}})
	req = httptest.NewRequest("POST", "/remove-images", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, store.objects)
}

func TestRemoveImages_RejectsForeignKeys(t *testing.T) {
	app, _ := setupApp()
	req := httptest.NewRequest("POST", "/remove-images", strings.NewReader(`{"keys":["user-profile-photos/a.jpg"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadImages_NoFiles(t *testing.T) {
	app, _ := setupApp()
	resp, err := app.Test(httptest.NewRequest("POST", "/upload-images", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
