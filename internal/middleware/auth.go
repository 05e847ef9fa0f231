package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/evcharge/account_service/internal/token"
)

// TokenAuth returns a middleware that verifies the bearer session token.
// It is a pure function of the Authorization header and the signing
// secret; no state is consulted. Both a missing and an invalid token are
// rejected with 403 before any business logic runs.
func TokenAuth(tokens *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if authz == "" {
			return c.Status(http.StatusForbidden).SendString("Access denied")
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			return c.Status(http.StatusForbidden).SendString("Access denied")
		}

		c.Locals("user_id", claims.ID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}
