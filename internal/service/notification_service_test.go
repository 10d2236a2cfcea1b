package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/observability"
	"github.com/barberdesk/kiosk/internal/session"
)

func TestNotificationServiceLogsWithoutTokens(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := session.NewStore(session.NewMemoryStorage(), nil, nil)
	NewNotificationService(store, zap.New(core), observability.NewMetrics()).RegisterHandlers()

	sess := &domain.StaffSession{
		StaffID:      "staff-1",
		Role:         domain.StaffRoleCashier,
		ShopID:       "shop-1",
		SessionToken: "secret-token",
	}
	require.NoError(t, store.Set(context.Background(), sess))
	require.True(t, store.Clear(context.Background(), events.ReasonLogout))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "SessionEstablished", entries[0].Message)
	assert.Equal(t, "SessionCleared", entries[1].Message)
	assert.Equal(t, "logout", entries[1].ContextMap()["reason"])
	for _, e := range entries {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, "secret-token", v)
		}
	}
}
