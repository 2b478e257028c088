package middleware

import (
	"github.com/gofiber/fiber/v2"

	"assetapi/internal/model"
)

const (
	// UserIDHeader and AdminIDHeader carry the identity resolved by the
	// authenticating gateway in front of this service. Token verification
	// itself happens upstream; the core only consumes the resolved identity.
	UserIDHeader  = "X-User-ID"
	AdminIDHeader = "X-Admin-ID"
	// ScopeLocalKey is the key used to store the ownership scope in Fiber's context locals.
	ScopeLocalKey = "scope"
)

// Identity resolves the caller's ownership scope from the gateway-set
// identity headers and stores it in context locals. Requests carrying neither
// identity, or both, are rejected before reaching any handler.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := model.Scope{
			UserID:  c.Get(UserIDHeader),
			AdminID: c.Get(AdminIDHeader),
		}
		if !scope.Valid() {
			return fiber.NewError(fiber.StatusUnauthorized, "exactly one identity is required")
		}
		c.Locals(ScopeLocalKey, scope)
		return c.Next()
	}
}

// ScopeFromCtx extracts the scope previously stored by Identity.
func ScopeFromCtx(c *fiber.Ctx) (model.Scope, bool) {
	scope, ok := c.Locals(ScopeLocalKey).(model.Scope)
	return scope, ok
}
