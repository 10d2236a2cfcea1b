package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
)

// ErrNoToken rejects sessions that could never authenticate a call.
var ErrNoToken = errors.New("session: missing session token")

// Store is the single source of truth for who is logged in on this kiosk.
// It holds no validation logic. Every write replaces the whole session, so
// concurrent writers always leave either a complete session or none.
type Store struct {
	mu         sync.RWMutex
	storage    Storage
	dispatcher events.Dispatcher
	logger     *zap.Logger

	loaded  bool
	current *domain.StaffSession
}

// NewStore builds a store over storage. Nothing is read until the first Get.
func NewStore(storage Storage, dispatcher events.Dispatcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &Store{storage: storage, dispatcher: dispatcher, logger: logger}
}

// Get returns a copy of the current session. The first call reads through to
// storage; later calls are served from memory.
func (s *Store) Get(ctx context.Context) (*domain.StaffSession, bool) {
	s.mu.RLock()
	if s.loaded {
		cur := s.current
		s.mu.RUnlock()
		return clone(cur), cur != nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return clone(s.current), s.current != nil
}

// Set replaces the current session, persists it and notifies subscribers.
func (s *Store) Set(ctx context.Context, sess *domain.StaffSession) error {
	if !sess.Authenticated() {
		return ErrNoToken
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Save(ctx, data); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.current = clone(sess)
	s.loaded = true
	s.mu.Unlock()

	_ = s.dispatcher.Publish(ctx, events.NewSessionEstablished(sess))
	return nil
}

// Clear removes the session from storage and memory. It reports whether a
// session was held; clearing an empty store publishes nothing.
func (s *Store) Clear(ctx context.Context, reason events.ClearReason) bool {
	return s.clear(ctx, reason, func(*domain.StaffSession) bool { return true })
}

// ClearIf clears only while the held session still carries token, so a stale
// check cannot remove a login that replaced it.
func (s *Store) ClearIf(ctx context.Context, token string, reason events.ClearReason) bool {
	return s.clear(ctx, reason, func(cur *domain.StaffSession) bool {
		return cur.SessionToken == token
	})
}

// Subscribe registers handler for both establish and clear events.
func (s *Store) Subscribe(handler events.EventHandler) {
	s.dispatcher.Subscribe(events.EventSessionEstablished, handler)
	s.dispatcher.Subscribe(events.EventSessionCleared, handler)
}

func (s *Store) clear(ctx context.Context, reason events.ClearReason, match func(*domain.StaffSession) bool) bool {
	s.mu.Lock()
	s.loadLocked(ctx)
	prev := s.current
	if prev == nil || !match(prev) {
		s.mu.Unlock()
		return false
	}
	if err := s.storage.Remove(ctx); err != nil {
		// Local logout is always honored; the stored copy expires on its own.
		s.logger.Warn("failed to remove stored session", zap.String("staff_id", prev.StaffID), zap.Error(err))
	}
	s.current = nil
	s.mu.Unlock()

	_ = s.dispatcher.Publish(ctx, events.NewSessionCleared(prev, reason))
	return true
}

// loadLocked must be called with mu held for writing.
func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	data, err := s.storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		s.loaded = true
		return
	case errors.Is(err, ErrUnsealFailed):
		s.discardLocked(ctx, err)
		return
	case err != nil:
		// Transient: report no session now and read again next time.
		s.logger.Warn("failed to read stored session", zap.Error(err))
		return
	}

	var sess domain.StaffSession
	if err := json.Unmarshal(data, &sess); err != nil {
		s.discardLocked(ctx, err)
		return
	}
	if !sess.Authenticated() || !sess.Role.Valid() {
		s.discardLocked(ctx, ErrNoToken)
		return
	}
	s.current = &sess
	s.loaded = true
}

func (s *Store) discardLocked(ctx context.Context, cause error) {
	s.logger.Warn("discarding unreadable stored session", zap.Error(cause))
	if err := s.storage.Remove(ctx); err != nil {
		s.logger.Warn("failed to remove unreadable session", zap.Error(err))
	}
	s.current = nil
	s.loaded = true
}

func clone(sess *domain.StaffSession) *domain.StaffSession {
	if sess == nil {
		return nil
	}
	cp := *sess
	return &cp
}
