package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/backend/backendtest"
	"github.com/barberdesk/kiosk/internal/domain"
)

func TestRevokerRunsInBackground(t *testing.T) {
	fake := backendtest.NewFake()
	release := make(chan struct{})
	fake.RevokeSessionFunc = func(ctx context.Context, _, _ string) (bool, error) {
		<-release
		return false, errors.New("network down")
	}

	r := NewRevoker(fake, time.Second, nil, nil)
	r.Submit(context.Background(), domain.Credentials{StaffID: "staff-1", SessionToken: "tok"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Drain(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, r.Drain(context.Background()))
	assert.Equal(t, 1, fake.Calls(backend.FnRevokeStaffSession))
}

func TestRevokerOutlivesCallerCancellation(t *testing.T) {
	fake := backendtest.NewFake()
	seen := make(chan error, 1)
	fake.RevokeSessionFunc = func(ctx context.Context, _, _ string) (bool, error) {
		seen <- ctx.Err()
		return true, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRevoker(fake, time.Second, nil, nil)
	r.Submit(ctx, domain.Credentials{StaffID: "staff-1", SessionToken: "tok"})
	require.NoError(t, r.Drain(context.Background()))
	assert.NoError(t, <-seen)
}

func TestRevokerSkipsEmptyToken(t *testing.T) {
	fake := backendtest.NewFake()
	r := NewRevoker(fake, time.Second, nil, nil)
	r.Submit(context.Background(), domain.Credentials{StaffID: "staff-1"})
	require.NoError(t, r.Drain(context.Background()))
	assert.Zero(t, fake.Calls(backend.FnRevokeStaffSession))
}
