package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lms-go-api/internal/utils"
)

// RequireRole ensures the authenticated identity carries one of the allowed
// roles. "admin" matches the admin flag rather than the role column. The
// rejection message never states which role would have been accepted.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if _, adminAllowed := allowed["admin"]; adminAllowed && identity.IsAdmin {
			return c.Next()
		}

		role := strings.ToLower(strings.TrimSpace(identity.Role))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
