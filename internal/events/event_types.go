package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/barberdesk/kiosk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionEstablished EventType = "session_established"
	EventSessionCleared     EventType = "session_cleared"
)

// ClearReason says why a session left the kiosk.
type ClearReason string

const (
	ReasonLogout      ClearReason = "logout"
	ReasonInvalidated ClearReason = "invalidated"
	ReasonExpired     ClearReason = "expired"
)

// Event represents a session change. Tokens are never carried.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	StaffID   string           `json:"staff_id"`
	ShopID    string           `json:"shop_id"`
	Role      domain.StaffRole `json:"role,omitempty"`
	Reason    ClearReason      `json:"reason,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewSessionEstablished builds the event published after a login is stored.
func NewSessionEstablished(s *domain.StaffSession) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventSessionEstablished,
		StaffID:   s.StaffID,
		ShopID:    s.ShopID,
		Role:      s.Role,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionCleared builds the event published after a session is removed.
func NewSessionCleared(s *domain.StaffSession, reason ClearReason) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventSessionCleared,
		StaffID:   s.StaffID,
		ShopID:    s.ShopID,
		Role:      s.Role,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}
