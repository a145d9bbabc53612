package listings

import (
	"context"
	"strconv"

	listsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/listings"
	propsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/properties"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgCreated   = "Property created successfully"
	MsgUpdated   = "Property updated successfully"
	MsgPublished = "Property published successfully"
)

// Handlers serves the hosting wizard under /user/hosting/list-property.
type Handlers struct {
	Service    *listsvc.Service
	Properties *propsvc.Service
}

func listingID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(listsvc.MsgNotFound)
	}
	return uint(id), nil
}

// step adapts a wizard step to a handler: parse the body, run the step for
// the caller's listing and return the refreshed listing.
func step[T any](fn func(ctx context.Context, ownerID, listingID uint, in T) (*domain.Listing, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := listingID(c)
		if err != nil {
			return response.FromError(c, err)
		}
		var in T
		if err := c.BodyParser(&in); err != nil {
			return response.InvalidBody(c)
		}
		l, err := fn(c.UserContext(), middleware.CurrentUser(c).ID, id, in)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, MsgUpdated, l)
	}
}

// SetType POST /type/:id? creates a draft (201) or updates the type of an
// existing listing (200).
func (h *Handlers) SetType(c *fiber.Ctx) error {
	var id *uint
	if c.Params("id") != "" {
		v, err := listingID(c)
		if err != nil {
			return response.FromError(c, err)
		}
		id = &v
	}
	var in listsvc.SetTypeInput
	if err := c.BodyParser(&in); err != nil {
		return response.InvalidBody(c)
	}
	l, created, err := h.Service.SetType(c.UserContext(), middleware.CurrentUser(c).ID, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	if created {
		return response.SuccessCreated(c, MsgCreated, l)
	}
	return response.Success(c, MsgUpdated, l)
}

// SetBeds PUT /beds/:id
func (h *Handlers) SetBeds() fiber.Handler {
	return step(h.Service.SetBeds)
}

// SetAddress PUT /address/:id
func (h *Handlers) SetAddress() fiber.Handler {
	return step(h.Service.SetAddress)
}

// SetLocation PUT /location/:id
func (h *Handlers) SetLocation() fiber.Handler {
	return step(h.Service.SetLocation)
}

// SetAmenities PUT /amenities/:id
func (h *Handlers) SetAmenities() fiber.Handler {
	return step(h.Service.SetAmenities)
}

// SetGuestRequirements PUT /guest-requirements/:id
func (h *Handlers) SetGuestRequirements() fiber.Handler {
	return step(h.Service.SetGuestRequirements)
}

// SetHouseRules PUT /house-rules/:id
func (h *Handlers) SetHouseRules() fiber.Handler {
	return step(h.Service.SetHouseRules)
}

// SetPropertyDetails PUT /property-details/:id
func (h *Handlers) SetPropertyDetails() fiber.Handler {
	return step(h.Service.SetPropertyDetails)
}

// SetDescription PUT /description/:id
func (h *Handlers) SetDescription() fiber.Handler {
	return step(h.Service.SetDescription)
}

// SetName PUT /name/:id
func (h *Handlers) SetName() fiber.Handler {
	return step(h.Service.SetName)
}

// SetSecondaryPhone PUT /phone-number/:id
func (h *Handlers) SetSecondaryPhone() fiber.Handler {
	return step(h.Service.SetSecondaryPhone)
}

// SetAvailability PUT /availability/:id
func (h *Handlers) SetAvailability() fiber.Handler {
	return step(h.Service.SetAvailability)
}

// SetPricing PUT /pricing/:id
func (h *Handlers) SetPricing() fiber.Handler {
	return step(h.Service.SetPricing)
}

// SetLawsAndCalendar PUT /laws-and-calender/:id
func (h *Handlers) SetLawsAndCalendar() fiber.Handler {
	return step(h.Service.SetLawsAndCalendar)
}

// SetQuestions PUT /questions/:id
func (h *Handlers) SetQuestions() fiber.Handler {
	return step(h.Service.SetQuestions)
}

// SetDiscounts PUT /discounts/:id
func (h *Handlers) SetDiscounts() fiber.Handler {
	return step(h.Service.SetDiscounts)
}

// SetPhotos PUT /photos/:id
func (h *Handlers) SetPhotos() fiber.Handler {
	return step(h.Service.SetPhotos)
}

// Preview GET /preview/:id
func (h *Handlers) Preview(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	v, err := h.Properties.Preview(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", v)
}

// Publish GET /publish/:id
func (h *Handlers) Publish(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	l, err := h.Service.Publish(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgPublished, l)
}

// MyListings GET /user/hosting/listings
func (h *Handlers) MyListings(c *fiber.Ctx) error {
	page, err := h.Properties.HostListings(c.UserContext(), middleware.CurrentUser(c).ID, c.Queries())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "properties", page)
}
