package middleware

import (
	"errors"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Fiber errors keep their status;
// everything else goes through response.FromError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
			return response.Error(c, response.MessageSomethingWrong, fe.Code, nil)
		}
		return response.Error(c, fe.Message, fe.Code, nil)
	}
	return response.FromError(c, err)
}
