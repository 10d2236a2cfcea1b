package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/observability"
	"github.com/barberdesk/kiosk/internal/session"
)

// NotificationService reports session changes to the log and to metrics.
type NotificationService struct {
	store   *session.Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(store *session.Store, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterHandlers subscribes to store events.
func (n *NotificationService) RegisterHandlers() {
	if n.store == nil {
		return
	}
	n.store.Subscribe(n.handle)
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	switch event.Type {
	case events.EventSessionEstablished:
		n.logger.Info("SessionEstablished",
			zap.String("event_id", event.ID),
			zap.String("staff_id", event.StaffID),
			zap.String("shop_id", event.ShopID),
			zap.String("role", string(event.Role)))
	case events.EventSessionCleared:
		n.metrics.RecordSessionCleared(string(event.Reason))
		n.logger.Info("SessionCleared",
			zap.String("event_id", event.ID),
			zap.String("staff_id", event.StaffID),
			zap.String("shop_id", event.ShopID),
			zap.String("reason", string(event.Reason)))
	}
	return nil
}
