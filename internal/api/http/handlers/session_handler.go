package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/barberdesk/kiosk/internal/api/dto"
	"github.com/barberdesk/kiosk/internal/auth"
	"github.com/barberdesk/kiosk/internal/service"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// SessionHandler exposes the staff PIN login lifecycle.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /auth/staff/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.sessions.Login(c.UserContext(), req.ShopID, req.PIN)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(res.Session, res.Redirect)})
}

// Logout handles POST /auth/staff/logout. It succeeds with or without a session.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	loggedOut := h.sessions.Logout(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.LogoutResponse{
		LoggedOut: loggedOut,
		Redirect:  apperrors.LoginPath,
	}})
}

// Current handles GET /auth/session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	sess, ok := h.sessions.Current(c.UserContext())
	if !ok {
		return apperrors.NewSessionExpired(nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess, auth.RedirectFor(sess.Role))})
}
