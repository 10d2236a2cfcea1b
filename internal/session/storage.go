package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Storage.Load when nothing is stored.
var ErrNotFound = errors.New("session: nothing stored")

// Storage holds the single serialized session record for this kiosk.
// Implementations decide the scope (process, redis key with TTL).
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

// MemoryStorage lives as long as the kiosk process, like a tab's session storage.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStorage returns empty process-scoped storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
