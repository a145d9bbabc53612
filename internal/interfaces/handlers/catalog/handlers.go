package catalog

import (
	"context"

	catalogsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/catalog"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the hosting lookup tables.
type Handlers struct {
	Service *catalogsvc.Service
}

func lookup[T any](fn func(ctx context.Context) ([]T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := fn(c.UserContext())
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, "", rows)
	}
}

// BedTypes GET /user/hosting/bed-types
func (h *Handlers) BedTypes() fiber.Handler { return lookup(h.Service.BedTypes) }

// PropertyTypes GET /user/hosting/property-types
func (h *Handlers) PropertyTypes() fiber.Handler { return lookup(h.Service.PropertyTypes) }

// Amenities GET /user/hosting/amenities
func (h *Handlers) Amenities() fiber.Handler { return lookup(h.Service.Amenities) }

// HomeDetails GET /user/hosting/home-details
func (h *Handlers) HomeDetails() fiber.Handler { return lookup(h.Service.HomeDetails) }

// HomeRules GET /user/hosting/home-rules
func (h *Handlers) HomeRules() fiber.Handler { return lookup(h.Service.HomeRules) }
