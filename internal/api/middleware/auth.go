package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// Auth validates the static bearer token from the environment. The API
// serves one school; there is no per-key store behind it.
func Auth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return domain.ErrUnauthorized
		}

		header := c.Get(fiber.HeaderAuthorization)
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return domain.ErrUnauthorized
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}
