package listings

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	listsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/listings"
	propsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/properties"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db    *gorm.DB
	owner *domain.User
	app   *fiber.App
}

func newApp(db *gorm.DB, u *domain.User) *fiber.App {
	h := &Handlers{
		Service:    listsvc.NewService(db, "https://cdn.example.com"),
		Properties: propsvc.NewService(db, "https://cdn.example.com"),
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.WithUser(u))
	app.Get("/listings", h.MyListings)
	lp := app.Group("/list-property")
	lp.Post("/type/:id?", h.SetType)
	gate := middleware.PropertyStatus(db)
	lp.Put("/beds/:id", gate, h.SetBeds())
	lp.Put("/amenities/:id", gate, h.SetAmenities())
	lp.Put("/name/:id", gate, h.SetName())
	lp.Get("/preview/:id", gate, h.Preview)
	lp.Get("/publish/:id", gate, h.Publish)
	return app
}

func setup(t *testing.T) *env {
	db := testutil.OpenSeededDB(t)
	owner := testutil.CreateUser(t, db, "host@example.com")
	return &env{db: db, owner: owner, app: newApp(db, owner)}
}

func (e *env) call(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (e *env) create(t *testing.T) uint {
	t.Helper()
	farm := testutil.LookupID(t, e.db, &domain.PropertyType{}, "property_type", "Farm House")
	status, body := e.call(t, "POST", "/list-property/type",
		fmt.Sprintf(`{"property_type":%d,"is_dedicated_guest_space":true,"is_business_hosting":false}`, farm))
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["uid"])
	return uint(data["id"].(float64))
}

func TestWizard_CreateEditPreviewPublish(t *testing.T) {
	e := setup(t)
	id := e.create(t)

	bed := testutil.LookupID(t, e.db, &domain.BedType{}, "bed_type", "single")
	status, body := e.call(t, "PUT", fmt.Sprintf("/list-property/beds/%d", id),
		fmt.Sprintf(`{"no_of_guests":2,"no_of_bedrooms":1,"no_of_bathrooms":1,"beds":[{"bed_id":%d,"bedroom_name":"Common Space","count":2,"serial_number":0}]}`, bed))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["data"].(map[string]interface{})["beds"], 1)

	status, _ = e.call(t, "PUT", fmt.Sprintf("/list-property/name/%d", id), `{"name":"Desert Camp"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, body = e.call(t, "PUT", fmt.Sprintf("/list-property/amenities/%d", id), `{"amenities":[99999]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "amenities")

	status, body = e.call(t, "GET", fmt.Sprintf("/list-property/preview/%d", id), "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Desert Camp", data["name"])
	assert.Equal(t, []interface{}{}, data["amenities"])

	status, body = e.call(t, "GET", fmt.Sprintf("/list-property/publish/%d", id), "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(domain.StatusPublished), body["data"].(map[string]interface{})["status"])

	status, body = e.call(t, "GET", "/listings", "")
	require.Equal(t, fiber.StatusOK, status)
	page := body["properties"].(map[string]interface{})
	assert.Equal(t, float64(1), page["meta"].(map[string]interface{})["total"])
}

func TestWizard_Gates(t *testing.T) {
	e := setup(t)
	id := e.create(t)

	status, _ := e.call(t, "PUT", "/list-property/name/424242", `{"name":"Nope"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	other := testutil.CreateUser(t, e.db, "other@example.com")
	intruder := newApp(e.db, other)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/list-property/name/%d", id), strings.NewReader(`{"name":"Mine now"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := intruder.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, e.db.Model(&domain.Listing{}).Where("id = ?", id).Update("status", domain.StatusBlocked).Error)
	status, body := e.call(t, "PUT", fmt.Sprintf("/list-property/name/%d", id), `{"name":"Blocked"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, middleware.MsgPropertyBlocked, body["message"])
}

func TestSetType_UpdateReturns200(t *testing.T) {
	e := setup(t)
	id := e.create(t)
	villa := testutil.LookupID(t, e.db, &domain.PropertyType{}, "property_type", "Villa")

	status, body := e.call(t, "POST", fmt.Sprintf("/list-property/type/%d", id),
		fmt.Sprintf(`{"property_type":%d,"is_beach_house":false,"is_dedicated_guest_space":true,"is_business_hosting":true}`, villa))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, float64(id), body["data"].(map[string]interface{})["id"])
}

func TestSetType_SecondSeededTypeNeedsNoBeachHouseAnswer(t *testing.T) {
	e := setup(t)

	status, body := e.call(t, "POST", "/list-property/type",
		`{"property_type":2,"is_dedicated_guest_space":true,"is_business_hosting":false}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["uid"])
	assert.Nil(t, data["is_beach_house"])
}
