package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/partner-portal/internal/services"
	"github.com/example/partner-portal/internal/utils"
)

// AuthHandler exposes the shared login endpoint and the password-reset
// handshake.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates either principal kind against one endpoint.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	message := "Partner login successful"
	if res.User.Type == utils.PrincipalAdmin {
		message = "Admin login successful"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"token":   res.Token,
		"user":    res.User,
	})
}

type forgetPasswordRequest struct {
	Email string `json:"email"`
}

// ForgetPassword starts the OTP handshake.
func (h *AuthHandler) ForgetPassword(c *fiber.Ctx) error {
	var req forgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.RequestOTP(c.Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent to registered email",
	})
}

type validateOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ValidateOTP exchanges a correct code for a reset token.
func (h *AuthHandler) ValidateOTP(c *fiber.Ctx) error {
	var req validateOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.auth.ValidateOTP(c.Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "OTP validated successfully",
		"resetToken": token,
	})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	ResetToken  string `json:"resetToken"`
}

// ResetPassword consumes the reset token and updates the principal's
// password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ResetPassword(c.Context(), req.Email, req.ResetToken, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "password updated successfully",
	})
}
