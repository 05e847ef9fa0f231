package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evcharge/account_service/internal/auth"
)

// RegisterAccountRoutes wires the account endpoints. Profile endpoints
// sit behind the token guard; everything else is public.
func RegisterAccountRoutes(app *fiber.App, h *auth.Handler, guard fiber.Handler) {
	app.Post("/send-otp", h.SendOTP)
	app.Post("/verify-otp", h.VerifyOTP)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/reset", h.ResetPassword)

	app.Get("/user-profile", guard, h.Profile)
	app.Put("/update-profile", guard, h.UpdateProfile)
}
