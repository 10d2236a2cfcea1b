package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/session"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// SessionEnder runs the logout flow for a specific set of credentials.
type SessionEnder interface {
	EndSession(ctx context.Context, creds domain.Credentials, reason events.ClearReason) bool
}

// Guard wraps every privileged backend call with the held credentials.
type Guard struct {
	sessions *session.Store
	ender    SessionEnder
	logger   *zap.Logger
}

// NewGuard constructs a guard.
func NewGuard(sessions *session.Store, ender SessionEnder, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{sessions: sessions, ender: ender, logger: logger}
}

// Do calls fn with the current credentials. Without a session fn never runs.
// A failure that reads as session expiry logs the kiosk out; every other
// failure is reduced to a generic message.
func (g *Guard) Do(ctx context.Context, fn func(context.Context, domain.Credentials) error) error {
	sess, ok := g.sessions.Get(ctx)
	if !ok || !sess.Authenticated() {
		return apperrors.NewSessionExpired(nil)
	}
	creds := sess.Credentials()

	err := fn(ctx, creds)
	if err == nil {
		return nil
	}

	switch Classify(err) {
	case KindSessionExpired:
		g.logger.Info("backend rejected session; logging out",
			zap.String("staff_id", creds.StaffID),
			zap.Error(err))
		g.ender.EndSession(ctx, creds, events.ReasonExpired)
		return apperrors.NewSessionExpired(err)
	case KindCredential:
		return err
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != apperrors.CodeInternal {
		return err
	}
	g.logger.Warn("privileged call failed", zap.String("staff_id", creds.StaffID), zap.Error(err))
	return apperrors.NewUnavailable(apperrors.MsgTryAgain, err)
}
