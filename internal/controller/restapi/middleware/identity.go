package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	ownerKey   = "owner_id"
	jwtCookie  = "JWT"
	bearerPref = "Bearer "
)

type OwnerResolver interface {
	Resolve(token string) (string, error)
}

// Identity resolves the member from a bearer token or the JWT cookie. It never
// rejects a request: without a valid token the owner is simply absent and the
// handlers decide whether that is allowed.
func Identity(resolver OwnerResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(jwtCookie)
		}

		if token != "" {
			if ownerID, err := resolver.Resolve(token); err == nil {
				c.Locals(ownerKey, ownerID)
			}
		}

		return c.Next()
	}
}

// OwnerID returns the resolved member id or "".
func OwnerID(c *fiber.Ctx) string {
	ownerID, _ := c.Locals(ownerKey).(string)
	return ownerID
}

func bearerToken(header string) string {
	if len(header) < len(bearerPref) || !strings.EqualFold(header[:len(bearerPref)], bearerPref) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPref):])
}
