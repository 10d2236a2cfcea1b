package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/auth"
	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/observability"
	"github.com/barberdesk/kiosk/internal/session"
	"github.com/barberdesk/kiosk/internal/worker"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// ValidationOutcome reports what a startup validation did.
type ValidationOutcome string

const (
	ValidationSkipped     ValidationOutcome = "skipped"
	ValidationValid       ValidationOutcome = "valid"
	ValidationInvalidated ValidationOutcome = "invalidated"
	ValidationDiscarded   ValidationOutcome = "discarded"
)

// LoginResult is a fresh session and the screen it lands on.
type LoginResult struct {
	Session  *domain.StaffSession
	Redirect string
}

// SessionService coordinates the PIN login lifecycle of this kiosk.
type SessionService struct {
	api     backend.SessionAPI
	store   *session.Store
	revoker *worker.Revoker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// SessionDependencies encapsulates collaborators for the session service.
type SessionDependencies struct {
	API     backend.SessionAPI
	Store   *session.Store
	Revoker *worker.Revoker
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	revoker := deps.Revoker
	if revoker == nil {
		revoker = worker.NewRevoker(deps.API, 0, logger, deps.Metrics)
	}
	return &SessionService{
		api:     deps.API,
		store:   deps.Store,
		revoker: revoker,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// Current returns the held session, if any.
func (s *SessionService) Current(ctx context.Context) (*domain.StaffSession, bool) {
	return s.store.Get(ctx)
}

// Login exchanges a shop and PIN for a session. Any held session is replaced
// only on success; failures never touch the store.
func (s *SessionService) Login(ctx context.Context, shopID, pin string) (*LoginResult, error) {
	if err := auth.ValidateLoginInput(shopID, pin); err != nil {
		s.metrics.RecordLogin("rejected")
		return nil, err
	}

	records, err := s.api.VerifyPIN(ctx, shopID, pin)
	if err != nil {
		s.metrics.RecordLogin("unavailable")
		s.logger.Warn("pin verification failed", zap.String("shop_id", shopID), zap.Error(err))
		return nil, apperrors.NewUnavailable(apperrors.MsgUnableToVerify, err)
	}
	if len(records) == 0 {
		s.metrics.RecordLogin("invalid_credentials")
		return nil, apperrors.NewInvalidCredentials()
	}

	rec := records[0]
	if !rec.IsActive || rec.ShopID != shopID {
		s.metrics.RecordLogin("invalid_credentials")
		return nil, apperrors.NewInvalidCredentials()
	}
	if rec.SessionToken == "" || !rec.Role.Valid() {
		s.metrics.RecordLogin("unavailable")
		s.logger.Error("backend returned unusable staff record",
			zap.String("staff_id", rec.StaffID),
			zap.String("role", string(rec.Role)),
			zap.Bool("has_token", rec.SessionToken != ""))
		return nil, apperrors.NewUnavailable(apperrors.MsgUnableToVerify, nil)
	}

	sess := rec.Session()
	if err := s.store.Set(ctx, sess); err != nil {
		s.metrics.RecordLogin("unavailable")
		s.logger.Error("failed to store session", zap.String("staff_id", sess.StaffID), zap.Error(err))
		return nil, apperrors.NewUnavailable(apperrors.MsgUnableToVerify, err)
	}

	s.metrics.RecordLogin("success")
	return &LoginResult{Session: sess, Redirect: auth.RedirectFor(sess.Role)}, nil
}

// Validate confirms the held session with the backend. Anything but a literal
// true clears it, including a deadline on ctx running out. If ctx is canceled
// before the answer is acted on, the answer is discarded and nothing changes.
func (s *SessionService) Validate(ctx context.Context) ValidationOutcome {
	sess, ok := s.store.Get(ctx)
	if !ok || !sess.Authenticated() {
		return s.validated(ValidationSkipped)
	}

	valid, err := s.api.ValidateSession(ctx, sess.StaffID, sess.SessionToken)
	if errors.Is(ctx.Err(), context.Canceled) {
		return s.validated(ValidationDiscarded)
	}
	if err == nil && valid {
		return s.validated(ValidationValid)
	}

	if err != nil {
		s.logger.Warn("session validation failed; clearing session", zap.String("staff_id", sess.StaffID), zap.Error(err))
	} else {
		s.logger.Info("backend rejected stored session", zap.String("staff_id", sess.StaffID))
	}
	s.store.ClearIf(context.WithoutCancel(ctx), sess.SessionToken, events.ReasonInvalidated)
	return s.validated(ValidationInvalidated)
}

// ValidateOnStartup is run once by bootstrap before the screen is served.
func (s *SessionService) ValidateOnStartup(ctx context.Context) ValidationOutcome {
	outcome := s.Validate(ctx)
	s.logger.Info("startup session validation", zap.String("outcome", string(outcome)))
	return outcome
}

func (s *SessionService) validated(outcome ValidationOutcome) ValidationOutcome {
	s.metrics.RecordValidation(string(outcome))
	return outcome
}

// Logout clears the held session at once and revokes it in the background.
// With no session held it does nothing.
func (s *SessionService) Logout(ctx context.Context) bool {
	sess, ok := s.store.Get(ctx)
	if !ok {
		return false
	}
	return s.EndSession(ctx, sess.Credentials(), events.ReasonLogout)
}

// EndSession clears the session carrying creds and submits its revocation.
// It reports false when that session is no longer held.
func (s *SessionService) EndSession(ctx context.Context, creds domain.Credentials, reason events.ClearReason) bool {
	if !s.store.ClearIf(ctx, creds.SessionToken, reason) {
		return false
	}
	s.revoker.Submit(ctx, creds)
	return true
}

// Close waits for pending revocations.
func (s *SessionService) Close(ctx context.Context) error {
	return s.revoker.Drain(ctx)
}
