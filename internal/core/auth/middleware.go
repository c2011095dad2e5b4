package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const principalLocal = "principal"

// Middleware decodes the Authorization header into a Principal and stores it
// in the request locals. Requests without credentials proceed as anonymous;
// a malformed or invalid token is rejected outright.
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(principalLocal, Anonymous)
			return c.Next()
		}

		tokenStr, ok := bearerToken(header)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header",
			})
		}

		principal, err := ParseToken(tokenStr, secret)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(principalLocal, principal)
		return c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !FromCtx(c).IsAuthenticated() {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without administrative capability.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := FromCtx(c)
		if !p.IsAuthenticated() {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}
		if !p.IsAdmin() {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error": "administrator capability required",
			})
		}
		return c.Next()
	}
}

// FromCtx retrieves the Principal stored by Middleware. Handlers reached
// without the middleware see an anonymous principal.
func FromCtx(c *fiber.Ctx) Principal {
	if p, ok := c.Locals(principalLocal).(Principal); ok {
		return p
	}
	return Anonymous
}
