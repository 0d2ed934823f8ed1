package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lms-go-api/internal/security"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// Locals keys populated by JWTProtected for downstream handlers.
const (
	LocalsIdentity = "identity"
	LocalsClaims   = "claims"
)

// JWTProtected validates the bearer token, rejects revoked sessions and
// attaches the identity context to the request. This is the presence half of
// the authorization gate; RequireRole is the role half.
func JWTProtected(tokens *security.TokenManager, denylist *security.TokenDenylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		revoked, err := denylist.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}
		if revoked {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(LocalsIdentity, claims.Identity())
		c.Locals(LocalsClaims, claims)

		return c.Next()
	}
}

// IdentityFromCtx returns the identity attached by JWTProtected.
func IdentityFromCtx(c *fiber.Ctx) (security.Identity, bool) {
	identity, ok := c.Locals(LocalsIdentity).(security.Identity)
	return identity, ok
}

// ClaimsFromCtx returns the raw token claims attached by JWTProtected.
func ClaimsFromCtx(c *fiber.Ctx) (security.Claims, bool) {
	claims, ok := c.Locals(LocalsClaims).(security.Claims)
	return claims, ok
}
