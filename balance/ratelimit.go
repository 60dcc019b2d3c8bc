package balance

import (
	"context"

	"github.com/konnektoren/tonpay/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"golang.org/x/time/rate"
)

// RateLimited throttles lookups on the wrapped provider
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimited allows rps lookups per second with a burst of one
func NewRateLimited(next Provider, rps float64) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (r *RateLimited) Balance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "rate limit wait aborted", err)
	}
	return r.next.Balance(ctx, addr)
}

func (r *RateLimited) Close() {
	Close(r.next)
}
