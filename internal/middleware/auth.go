package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/partner-portal/internal/config"
	"github.com/example/partner-portal/internal/utils"
)

const principalContextKey = "currentPrincipal"

// RequireRole validates the bearer token and admits principals whose kind or
// admin role appears in the allow-list. An empty allow-list admits any valid
// token.
func RequireRole(cfg *config.Config, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		if len(allowed) > 0 && !slices.Contains(allowed, claims.Type) && !slices.Contains(allowed, claims.Role) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission for this action")
		}

		c.Locals(principalContextKey, claims)
		return c.Next()
	}
}

// CurrentPrincipal extracts the authenticated claims from context.
func CurrentPrincipal(c *fiber.Ctx) (*utils.Claims, bool) {
	value := c.Locals(principalContextKey)
	if value == nil {
		return nil, false
	}

	claims, ok := value.(*utils.Claims)
	return claims, ok
}
