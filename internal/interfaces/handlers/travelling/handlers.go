package travelling

import (
	"strconv"

	propsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/properties"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the traveller-facing listing reads.
type Handlers struct {
	Service *propsvc.Service
}

// SearchProperty GET /user/travelling/search-property?search=&page=&pageSize=&sort=
func (h *Handlers) SearchProperty(c *fiber.Ctx) error {
	page, err := h.Service.Search(c.UserContext(), c.Queries())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "properties", page)
}

// PropertyDetails GET /user/travelling/property-details/:id
func (h *Handlers) PropertyDetails(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.FromError(c, apperr.NotFound(propsvc.MsgNotFound))
	}
	v, err := h.Service.Detail(c.UserContext(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, "", "property", v)
}
