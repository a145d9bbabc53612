package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	userUIDLocal = "user_uid"
	userLocal    = "user"
	adminLocal   = "admin_id"
)

// Messages sent by the auth gates.
const (
	MsgUnauthorized = "Unauthorized"
	MsgLoginAgain   = "Please login again"
	MsgInactive     = "Your account is inactive, please contact Admin"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func claims(c *fiber.Ctx, issuer *token.Issuer, role string) (*token.Claims, error) {
	raw := bearer(c)
	if raw == "" {
		return nil, token.ErrInvalid
	}
	cl, err := issuer.Parse(raw)
	if err != nil {
		return nil, err
	}
	if cl.Role != role {
		return nil, token.ErrInvalid
	}
	return cl, nil
}

// RequireUser accepts a valid user bearer token and stores its subject.
func RequireUser(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cl, err := claims(c, issuer, token.RoleUser)
		if errors.Is(err, token.ErrExpired) {
			return response.Unauthorized(c, MsgLoginAgain)
		}
		if err != nil {
			return response.Unauthorized(c, MsgUnauthorized)
		}
		c.Locals(userUIDLocal, cl.Subject)
		return c.Next()
	}
}

// UserActive loads the token's user. Deleted users must log in again and
// inactive users are refused. Runs after RequireUser.
func UserActive(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals(userUIDLocal).(string)
		if uid == "" {
			return response.Unauthorized(c, MsgUnauthorized)
		}
		var u domain.User
		err := db.WithContext(c.UserContext()).Where("uid = ?", uid).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && u.IsDeleted) {
			return response.Unauthorized(c, MsgLoginAgain)
		}
		if err != nil {
			return response.FromError(c, err)
		}
		if !u.IsActive {
			return response.Error(c, MsgInactive, fiber.StatusForbidden, nil)
		}
		c.Locals(userLocal, &u)
		return c.Next()
	}
}

// RequireAdmin accepts a valid admin bearer token.
func RequireAdmin(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cl, err := claims(c, issuer, token.RoleAdmin)
		if err != nil {
			return response.Unauthorized(c, MsgUnauthorized)
		}
		id, err := strconv.ParseUint(cl.Subject, 10, 64)
		if err != nil {
			return response.Unauthorized(c, MsgUnauthorized)
		}
		c.Locals(adminLocal, uint(id))
		return c.Next()
	}
}

// CurrentUser returns the user loaded by UserActive (nil if not logged in).
func CurrentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userLocal).(*domain.User)
	return u
}

// AdminID returns the admin id set by RequireAdmin.
func AdminID(c *fiber.Ctx) uint {
	id, _ := c.Locals(adminLocal).(uint)
	return id
}

// WithUser stores u as the current user. Used by handler tests.
func WithUser(u *domain.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(userLocal, u)
		return c.Next()
	}
}
