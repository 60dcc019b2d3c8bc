package session

import (
	"context"
	"sync"

	"github.com/konnektoren/tonpay/types"
)

// MemoryStore keeps sessions in process memory. They are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]types.WalletSession
	closed   bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]types.WalletSession)}
}

func (m *MemoryStore) Save(_ context.Context, key string, s types.WalletSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.sessions[key] = s
	return nil
}

func (m *MemoryStore) Load(_ context.Context, key string) (*types.WalletSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	s, ok := m.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.sessions, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.sessions = nil
	return nil
}
