package balance

import (
	"context"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

// DefaultStaticBalance is reported by StaticProvider when no amount is configured
var DefaultStaticBalance = tlb.MustFromTON("1")

// StaticProvider reports the same balance for every account
type StaticProvider struct {
	amount tlb.Coins
}

func NewStaticProvider(amount tlb.Coins) *StaticProvider {
	return &StaticProvider{amount: amount}
}

func (s *StaticProvider) Balance(context.Context, *address.Address) (tlb.Coins, error) {
	return s.amount, nil
}
