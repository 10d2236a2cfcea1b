package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/observability"
)

// Revoker runs best-effort backend revocations off the logout path.
// Failures are logged and counted, never returned.
type Revoker struct {
	api     backend.SessionAPI
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics

	wg sync.WaitGroup
}

// NewRevoker constructs a revoker. Each call is bounded by timeout.
func NewRevoker(api backend.SessionAPI, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Revoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Revoker{api: api, timeout: timeout, logger: logger, metrics: metrics}
}

// Submit starts one revoke call for creds and returns immediately. The call
// outlives ctx's cancellation but keeps its values.
func (r *Revoker) Submit(ctx context.Context, creds domain.Credentials) {
	if creds.SessionToken == "" {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		revoked, err := r.api.RevokeSession(callCtx, creds.StaffID, creds.SessionToken)
		switch {
		case err != nil:
			r.metrics.RecordRevocation("failed")
			r.logger.Warn("session revoke failed", zap.String("staff_id", creds.StaffID), zap.Error(err))
		case !revoked:
			r.metrics.RecordRevocation("not_revoked")
			r.logger.Info("backend did not revoke session", zap.String("staff_id", creds.StaffID))
		default:
			r.metrics.RecordRevocation("revoked")
			r.logger.Debug("session revoked", zap.String("staff_id", creds.StaffID))
		}
	}()
}

// Drain waits for in-flight revocations or until ctx is done.
func (r *Revoker) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
