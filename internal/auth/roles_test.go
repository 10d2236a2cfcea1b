package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/session"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, BarberPortalPath, RedirectFor(domain.StaffRoleBarber))
	assert.Equal(t, CashierPortalPath, RedirectFor(domain.StaffRoleCashier))
	assert.Equal(t, TimeClockPath, RedirectFor(domain.StaffRoleCleaner))
	assert.Equal(t, apperrors.LoginPath, RedirectFor("manager"))
}

func newRoleApp(store *session.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/payments", RequireSession(store), RequireRole(domain.StaffRoleCashier, domain.StaffRoleBarber), func(c *fiber.Ctx) error {
		sess, _ := SessionFromContext(c)
		return c.SendString(sess.StaffID)
	})
	return app
}

func TestRequireSessionAndRole(t *testing.T) {
	cases := []struct {
		name   string
		role   domain.StaffRole
		status int
		body   string
	}{
		{name: "no session", status: http.StatusUnauthorized, body: apperrors.CodeSessionExpired},
		{name: "cleaner", role: domain.StaffRoleCleaner, status: http.StatusForbidden, body: apperrors.CodeForbidden},
		{name: "cashier", role: domain.StaffRoleCashier, status: http.StatusOK, body: "staff-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewStore(session.NewMemoryStorage(), nil, nil)
			if tc.role != "" {
				require.NoError(t, store.Set(context.Background(), &domain.StaffSession{
					StaffID:      "staff-1",
					Role:         tc.role,
					ShopID:       "shop-1",
					SessionToken: "tok-1",
				}))
			}

			resp, err := newRoleApp(store).Test(httptest.NewRequest(http.MethodGet, "/payments", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			buf := make([]byte, 64)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, tc.body, string(buf[:n]))
		})
	}
}
