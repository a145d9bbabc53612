package user

import (
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	usersvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/user"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgPhotoUpdated = "Profile photo updated successfully"
	MsgPhoneUpdated = "Phone number updated successfully"
)

// Handlers serves the signed-in user's own account.
type Handlers struct {
	Service *usersvc.Service
}

// MyProfile GET /user/my-profile returns {data:[user]}.
func (h *Handlers) MyProfile(c *fiber.Ctx) error {
	u, err := h.Service.Profile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", []*domain.User{u})
}

// ProfilePhoto POST /user/profile-photo (multipart "photo").
func (h *Handlers) ProfilePhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return response.FromError(c, apperr.Field("photo", "is required"))
	}
	url, err := h.Service.UpdateProfilePhoto(c.UserContext(), middleware.CurrentUser(c).ID, uploads.FromMultipart(fh))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, MsgPhotoUpdated, fiber.Map{"avatar_url": url})
}

// PhoneNumber PUT /user/phone-number
func (h *Handlers) PhoneNumber(c *fiber.Ctx) error {
	var req usersvc.UpdatePhoneInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	u, err := h.Service.UpdatePhoneNumber(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgPhoneUpdated, u)
}
