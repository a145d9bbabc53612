package middleware

import (
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/i18n"

	"github.com/gofiber/fiber/v2"
)

// Locale negotiates Accept-Language and puts the language in the request
// context used by handlers and services.
func Locale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
		c.SetUserContext(i18n.WithTag(c.UserContext(), tag))
		c.Set(fiber.HeaderContentLanguage, tag.String())
		return c.Next()
	}
}
