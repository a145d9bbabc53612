package response

import (
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorBody is the error JSON shape: {message, error?}.
type ErrorBody struct {
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

const (
	// MessageSomethingWrong is sent for every unexpected failure.
	MessageSomethingWrong = "Something went wrong"
	MessageInvalidBody    = "Invalid request body"
)

// JSON sends status with {message?, <key>: payload}. An empty key sends only
// the message. The message is translated to the request language.
func JSON(c *fiber.Ctx, status int, message, key string, payload interface{}) error {
	body := fiber.Map{}
	if message != "" {
		body["message"] = i18n.T(c.UserContext(), message)
	}
	if key != "" {
		body[key] = payload
	}
	return c.Status(status).JSON(body)
}

// Success sends a 200 OK response with payload under "data".
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return JSON(c, fiber.StatusOK, message, "data", data)
}

// SuccessCreated sends a 201 Created response with payload under "data".
func SuccessCreated(c *fiber.Ctx, message string, data interface{}) error {
	return JSON(c, fiber.StatusCreated, message, "data", data)
}

// Message sends status with only a message.
func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody{Message: i18n.T(c.UserContext(), message)})
}

// Error sends a response with the error format. The message is translated.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return c.Status(statusCode).JSON(ErrorBody{Message: i18n.T(c.UserContext(), message), Error: details})
}

// InvalidBody sends 400 for a request body that does not parse.
func InvalidBody(c *fiber.Ctx) error {
	return Error(c, MessageInvalidBody, fiber.StatusBadRequest, nil)
}

// Unauthorized sends 401 with the error format.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindUpstream:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindGone:
		return fiber.StatusGone
	}
	return fiber.StatusInternalServerError
}

// FromError converts a service error to a response. Unclassified errors are
// logged and reported with the generic message.
func FromError(c *fiber.Ctx, err error) error {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindUnexpected {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return Error(c, MessageSomethingWrong, fiber.StatusInternalServerError, nil)
	}
	if e.Kind == apperr.KindUpstream {
		log.Warn().Err(e.Err).Str("path", c.Path()).Msg(e.Message)
	}
	var details interface{}
	if len(e.Fields) > 0 {
		details = e.Fields
	}
	return Error(c, e.Message, StatusFor(e.Kind), details)
}
