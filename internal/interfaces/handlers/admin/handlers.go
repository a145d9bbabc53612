package admin

import (
	adminsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/admin"
	propsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/properties"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgLoggedIn        = "Logged in successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgUserDeleted     = "User deleted successfully"
	MsgUserStatus      = "User status updated successfully"
	MsgPropertyDeleted = "Property deleted successfully"
	MsgPropertyStatus  = "Property status updated successfully"
)

// Handlers serves the back office under /admin.
type Handlers struct {
	Service    *adminsvc.Service
	Properties *propsvc.Service
}

// Login POST /admin/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req adminsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	sess, err := h.Service.Login(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgLoggedIn, sess)
}

// ChangePassword POST /admin/change-password
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	var req adminsvc.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	if err := h.Service.ChangePassword(c.UserContext(), middleware.AdminID(c), req); err != nil {
		return response.FromError(c, err)
	}
	return response.Message(c, fiber.StatusOK, MsgPasswordChanged)
}

// Users GET /admin/users and /admin/users-list
func (h *Handlers) Users(c *fiber.Ctx) error {
	page, err := h.Service.Users(c.UserContext(), c.Queries())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "users", page)
}

// DeleteUser DELETE /admin/delete-user/:userId
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	if err := h.Service.DeleteUser(c.UserContext(), c.Params("userId")); err != nil {
		return response.FromError(c, err)
	}
	return response.Message(c, fiber.StatusOK, MsgUserDeleted)
}

// ToggleStatus PUT /admin/toggle-status/:userId
func (h *Handlers) ToggleStatus(c *fiber.Ctx) error {
	active, err := h.Service.ToggleUserStatus(c.UserContext(), c.Params("userId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgUserStatus, fiber.Map{"is_active": active})
}

// PropertyList GET /admin/property-list
func (h *Handlers) PropertyList(c *fiber.Ctx) error {
	page, err := h.Properties.AdminList(c.UserContext(), c.Queries())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "properties", page)
}

// DeleteProperty DELETE /admin/delete-property/:id (listing uid)
func (h *Handlers) DeleteProperty(c *fiber.Ctx) error {
	if err := h.Properties.AdminDelete(c.UserContext(), c.Params("id")); err != nil {
		return response.FromError(c, err)
	}
	return response.Message(c, fiber.StatusOK, MsgPropertyDeleted)
}

// BlockProperty PUT /admin/block-property/:id toggles blocked and published.
func (h *Handlers) BlockProperty(c *fiber.Ctx) error {
	status, err := h.Properties.ToggleBlock(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgPropertyStatus, fiber.Map{"status": status})
}

// PropertyDetails GET /admin/property-details/:id (listing uid)
func (h *Handlers) PropertyDetails(c *fiber.Ctx) error {
	v, err := h.Properties.AdminDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "property", v)
}
