package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/barberdesk/kiosk/internal/domain"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// Portal paths the screen navigates to after login.
const (
	BarberPortalPath  = "/barber"
	CashierPortalPath = "/cashier"
	TimeClockPath     = "/timeclock"
)

// RedirectFor returns the landing screen for role. Unknown roles go back to login.
func RedirectFor(role domain.StaffRole) string {
	switch role {
	case domain.StaffRoleBarber:
		return BarberPortalPath
	case domain.StaffRoleCashier:
		return CashierPortalPath
	case domain.StaffRoleCleaner:
		return TimeClockPath
	default:
		return apperrors.LoginPath
	}
}

// RequireRole ensures the held session has one of the allowed roles.
// It must run after RequireSession.
func RequireRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewSessionExpired(nil)
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[sess.Role]; !exists {
			return apperrors.NewForbidden("not available for your role")
		}
		return c.Next()
	}
}
