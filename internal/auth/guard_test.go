package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/session"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

type enderFunc func(ctx context.Context, creds domain.Credentials, reason events.ClearReason) bool

func (f enderFunc) EndSession(ctx context.Context, creds domain.Credentials, reason events.ClearReason) bool {
	return f(ctx, creds, reason)
}

func newGuard(t *testing.T, token string) (*Guard, *session.Store, *[]events.ClearReason) {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(), nil, nil)
	if token != "" {
		require.NoError(t, store.Set(context.Background(), &domain.StaffSession{
			StaffID:      "staff-1",
			Role:         domain.StaffRoleCashier,
			ShopID:       "shop-1",
			SessionToken: token,
		}))
	}
	var ended []events.ClearReason
	ender := enderFunc(func(ctx context.Context, creds domain.Credentials, reason events.ClearReason) bool {
		ended = append(ended, reason)
		return store.ClearIf(ctx, creds.SessionToken, reason)
	})
	return NewGuard(store, ender, nil), store, &ended
}

func TestGuardWithoutSession(t *testing.T) {
	g, _, ended := newGuard(t, "")
	called := false

	err := g.Do(context.Background(), func(context.Context, domain.Credentials) error {
		called = true
		return nil
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSessionExpired))
	assert.False(t, called)
	assert.Empty(t, *ended)
}

func TestGuardPassesCredentials(t *testing.T) {
	g, _, _ := newGuard(t, "tok-1")

	var got domain.Credentials
	err := g.Do(context.Background(), func(_ context.Context, creds domain.Credentials) error {
		got = creds
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{
		StaffID:      "staff-1",
		ShopID:       "shop-1",
		Role:         domain.StaffRoleCashier,
		SessionToken: "tok-1",
	}, got)
}

func TestGuardExpiryEndsSession(t *testing.T) {
	g, store, ended := newGuard(t, "tok-1")

	err := g.Do(context.Background(), func(context.Context, domain.Credentials) error {
		return &backend.Error{Op: backend.FnStaffClockIn, Message: "Session expired"}
	})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeSessionExpired, de.Code)
	assert.Equal(t, apperrors.LoginPath, de.Details["redirect"])
	assert.Equal(t, []events.ClearReason{events.ReasonExpired}, *ended)

	_, ok := store.Get(context.Background())
	assert.False(t, ok)
}

func TestGuardOtherErrorsAreGeneric(t *testing.T) {
	g, store, ended := newGuard(t, "tok-1")

	err := g.Do(context.Background(), func(context.Context, domain.Credentials) error {
		return &backend.Error{Op: backend.FnRecordPayment, Err: errors.New("connection reset by peer")}
	})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeUnavailable, de.Code)
	assert.Equal(t, apperrors.MsgTryAgain, de.Message)
	assert.Empty(t, *ended)

	_, ok := store.Get(context.Background())
	assert.True(t, ok)
}

func TestGuardKeepsLocalValidationErrors(t *testing.T) {
	g, _, _ := newGuard(t, "tok-1")

	err := g.Do(context.Background(), func(context.Context, domain.Credentials) error {
		return apperrors.NewValidationError("bad amount", nil)
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}
