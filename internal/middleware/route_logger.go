package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RouteLogger writes one line per request once the handler chain is done.
// 4xx are warnings and 5xx errors; the caller is included when a gate
// identified one.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		logger := zerolog.Ctx(c.UserContext())
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = logger.Error()
		case status >= fiber.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("took", time.Since(start))
		if u := CurrentUser(c); u != nil {
			ev = ev.Str("user_uid", u.UID)
		}
		if id := AdminID(c); id != 0 {
			ev = ev.Uint("admin_id", id)
		}
		ev.Msg("request")
		return err
	}
}
