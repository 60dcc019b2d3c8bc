// Package session persists the wallet session so a restarted adapter can
// restore the connection without asking the user again.
package session

import (
	"context"
	"errors"

	"github.com/konnektoren/tonpay/types"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("session store is closed")
)

// Store keeps one WalletSession per key. Implementations are safe for concurrent use.
type Store interface {
	Save(ctx context.Context, key string, s types.WalletSession) error
	// Load returns ErrNotFound when key has no session
	Load(ctx context.Context, key string) (*types.WalletSession, error)
	// Delete is idempotent
	Delete(ctx context.Context, key string) error
	Close() error
}
