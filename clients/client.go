package clients

import (
	"context"

	"github.com/konnektoren/tonpay/types"
)

// StatusHandler receives the connected wallet, or nil once it disconnects.
type StatusHandler func(wallet *types.Wallet)

// WalletClient is the wallet-connect client the adapter drives. Implementations
// own the transport to the wallet; the adapter only observes status changes
// and forwards transaction requests.
type WalletClient interface {
	// OnStatusChange registers handler and returns a function removing it.
	OnStatusChange(handler StatusHandler) (unsubscribe func())
	// Account returns the connected account, nil when disconnected.
	Account() *types.Account
	SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*types.PaymentResult, error)
	Close()
}

// Factory constructs a WalletClient bound to a manifest
type Factory func(cfg types.ClientConfig) (WalletClient, error)

// Restorer is implemented by clients that can resume a previously connected
// account without user interaction. Restoring emits a status change.
type Restorer interface {
	Restore(account types.Account) error
}
