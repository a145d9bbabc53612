package auth

import (
	authsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/auth"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgOTPSent     = "OTP sent successfully"
	MsgOTPVerified = "OTP verified successfully"
	MsgRegistered  = "Registered successfully"
	MsgLoggedIn    = "Logged in successfully"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
}

// CheckAccount POST /auth/check-account. Known accounts get 202, an unknown
// email 404 and an unknown phone number an OTP.
func (h *Handlers) CheckAccount(c *fiber.Ctx) error {
	var req authsvc.CheckAccountInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	res, err := h.Service.CheckAccount(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	if res.Outcome == authsvc.OutcomeOTPSent {
		return response.JSON(c, fiber.StatusOK, MsgOTPSent, "otp_sid", res.OTPSid)
	}
	body := fiber.Map{"message": res.Message}
	if res.Email != "" {
		body["email"] = res.Email
	}
	return c.Status(fiber.StatusAccepted).JSON(body)
}

// ResendOTP POST /auth/resend-otp
func (h *Handlers) ResendOTP(c *fiber.Ctx) error {
	var req authsvc.PhoneInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	sid, err := h.Service.ResendOTP(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, MsgOTPSent, "otp_sid", sid)
}

// VerifyOTP POST /auth/verify-otp
func (h *Handlers) VerifyOTP(c *fiber.Ctx) error {
	var req authsvc.VerifyOTPInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	res, err := h.Service.VerifyOTP(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, MsgOTPVerified, "status", res.Status)
}

// Register POST /auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	sess, err := h.Service.Register(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, MsgRegistered, sess)
}

// Login POST /auth/login with email or country_code+phone_number.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	sess, err := h.Service.Login(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgLoggedIn, sess)
}

// SocialLogin POST /auth/social-login
func (h *Handlers) SocialLogin(c *fiber.Ctx) error {
	var req authsvc.SocialLoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	sess, err := h.Service.SocialLogin(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgLoggedIn, sess)
}
