package middleware

import (
	"errors"
	"strconv"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	MsgPropertyNotFound = "Property not found"
	MsgPropertyBlocked  = "Your property is blocked, please contact admin"
)

// PropertyStatus gates routes addressing a listing by the :id param: a
// missing or deleted listing is 404, a blocked one is 403.
func PropertyStatus(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return response.Error(c, MsgPropertyNotFound, fiber.StatusNotFound, nil)
		}
		var l domain.Listing
		err = db.WithContext(c.UserContext()).Select("id", "status").First(&l, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && l.Status == domain.StatusDeleted) {
			return response.Error(c, MsgPropertyNotFound, fiber.StatusNotFound, nil)
		}
		if err != nil {
			return response.FromError(c, err)
		}
		if l.Status == domain.StatusBlocked {
			return response.Error(c, MsgPropertyBlocked, fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
