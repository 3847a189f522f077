package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/session"
)

const (
	identityKey  = "session_identity"
	sessionIDKey = "session_id"
)

// SessionMiddleware restores the caller's identity from the session cookie
// and injects it into the request context for downstream upstream calls.
type SessionMiddleware struct {
	sessions   *session.Manager
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *session.Manager, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sid := c.Cookies(m.cookieName)
	if sid == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing session")
	}

	identity, err := m.sessions.Restore(c.UserContext(), sid)
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	c.Locals(sessionIDKey, sid)
	c.SetUserContext(session.WithID(c.UserContext(), sid))
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// SessionIDFromContext retrieves the session ID set by the middleware.
func SessionIDFromContext(c *fiber.Ctx) (string, bool) {
	sid, ok := c.Locals(sessionIDKey).(string)
	return sid, ok && sid != ""
}

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := domain.NewRoleSet(allowed...)

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		for role := range allowedSet {
			if identity.Roles.Has(role) {
				return c.Next()
			}
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}

// RequireManager ensures the caller holds a manager-class role.
func RequireManager() fiber.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleGerente, domain.RoleFarmacia)
}
