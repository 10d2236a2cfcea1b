package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnsealFailed means the stored record was not sealed with this kiosk's key.
var ErrUnsealFailed = errors.New("session: stored record cannot be opened")

// SealedStorage encrypts records before handing them to the inner storage.
type SealedStorage struct {
	inner Storage
	key   *[32]byte
}

// NewSealedStorage wraps inner. A nil key returns inner unchanged.
func NewSealedStorage(inner Storage, key *[32]byte) Storage {
	if key == nil {
		return inner
	}
	return &SealedStorage{inner: inner, key: key}
}

func (s *SealedStorage) Load(ctx context.Context) ([]byte, error) {
	sealed, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize {
		return nil, ErrUnsealFailed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	opened, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, ErrUnsealFailed
	}
	return opened, nil
}

func (s *SealedStorage) Save(ctx context.Context, data []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], data, &nonce, s.key)
	return s.inner.Save(ctx, sealed)
}

func (s *SealedStorage) Remove(ctx context.Context) error {
	return s.inner.Remove(ctx)
}
