// Package balance resolves the TON balance of a connected account.
package balance

import (
	"context"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

// Provider looks up the balance of an account
type Provider interface {
	Balance(ctx context.Context, addr *address.Address) (tlb.Coins, error)
}

// Closer is implemented by providers that hold connections
type Closer interface {
	Close()
}

// Close releases p if it holds resources
func Close(p Provider) {
	if c, ok := p.(Closer); ok {
		c.Close()
	}
}
