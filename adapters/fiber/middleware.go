package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lborres/marquee"
)

// Context keys set by requireAuth for downstream handlers.
const (
	localAccount = "account"
	localToken   = "token"
)

// requireAuth validates the bearer token and stores the resolved
// account in the context. A failed authentication short-circuits
// before any handler body runs, so protected writes have zero side
// effects on bad credentials.
func requireAuth(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": marquee.ErrInvalidToken.Error(),
			})
		}

		account, err := m.Sessions.Authenticate(c.Context(), token)
		if err != nil {
			return respondError(c, err)
		}

		c.Locals(localAccount, account)
		c.Locals(localToken, token)

		return c.Next()
	}
}

// extractToken pulls the opaque bearer value from the Authorization
// header.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

func accountFromCtx(c fiber.Ctx) *marquee.Account {
	return c.Locals(localAccount).(*marquee.Account)
}
