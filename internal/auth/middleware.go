package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/session"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

const sessionKey = "staff_session"

// RequireSession refuses the request locally when no session is held, so no
// privileged call is attempted with a known-absent token.
func RequireSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := store.Get(c.UserContext())
		if !ok || !sess.Authenticated() {
			return apperrors.NewSessionExpired(nil)
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// SessionFromContext retrieves the session snapshot RequireSession stored.
func SessionFromContext(c *fiber.Ctx) (*domain.StaffSession, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*domain.StaffSession)
	return sess, ok
}
