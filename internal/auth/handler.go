package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/evcharge/account_service/internal/identity"
)

// Handler exposes the account endpoints and owns the mapping from workflow
// errors to HTTP status codes and response bodies.
type Handler struct {
	svc    *Service
	ids    *identity.Service
	logger *slog.Logger
}

// NewHandler builds the HTTP handler for the account service.
func NewHandler(svc *Service, ids *identity.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, ids: ids, logger: logger}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTP mails a registration code to a not-yet-registered email.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.svc.SendRegistrationOTP(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
		}
		h.logger.Error("send otp failed", "email", req.Email, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent successfully"})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP checks a submitted code against the pending challenge.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.svc.VerifyOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, ErrOTPNotFound):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "OTP expired or not found"})
		case errors.Is(err, ErrOTPMismatch):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid OTP"})
		case errors.Is(err, ErrOTPExpired):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "OTP expired"})
		}
		h.logger.Error("verify otp failed", "email", req.Email, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Verification failed"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account. OTP send/verify are separate steps the
// caller sequences; registration does not enforce that ordering.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidEmail):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
		case errors.Is(err, identity.ErrExists):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
		}
		h.logger.Error("registration failed", "email", req.Email, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Error registering user"})
	}

	h.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Login is the single two-phase endpoint: without an otp field it mails a
// login code, with one it completes authentication and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.svc.Login(c.UserContext(), req.Email, req.Password, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, identity.ErrInvalidCredentials):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
		case errors.Is(err, ErrOTPMismatch):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid OTP"})
		case errors.Is(err, ErrOTPExpired):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "OTP expired"})
		}
		h.logger.Error("login failed", "email", req.Email, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Login process failed"})
	}

	if res.RequireOTP {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent successfully", "requireOtp": true})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": res.Token,
		"name":  res.User.Name,
		"role":  res.Role,
		"_id":   res.User.ID,
	})
}

// Profile returns the authenticated user's name and email. The password
// hash is never exposed.
func (h *Handler) Profile(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	user, err := h.ids.Profile(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return c.Status(http.StatusNotFound).SendString("User not found")
		}
		h.logger.Error("profile fetch failed", "user_id", uid, "error", err)
		return c.Status(http.StatusInternalServerError).SendString("Server error")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"name": user.Name, "email": user.Email})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile replaces name and email; empty fields keep stored values.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	uid, _ := c.Locals("user_id").(string)

	user, err := h.ids.UpdateProfile(c.UserContext(), uid, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return c.Status(http.StatusNotFound).SendString("User not found")
		}
		h.logger.Error("profile update failed", "user_id", uid, "error", err)
		return c.Status(http.StatusInternalServerError).SendString("Server error")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    fiber.Map{"name": user.Name, "email": user.Email},
	})
}

type resetRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPassword stores a new credential for the given email. No ownership
// check is performed on this path.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.ids.ResetPassword(c.UserContext(), req.Email, req.Password); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return c.Status(http.StatusNotFound).SendString("User not found")
		}
		h.logger.Error("password reset failed", "email", req.Email, "error", err)
		return c.Status(http.StatusInternalServerError).SendString("Error updating password")
	}

	return c.Status(http.StatusOK).SendString("Password has been updated")
}
