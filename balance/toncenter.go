package balance

import (
	"context"

	"github.com/konnektoren/tonpay/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/toncenter"
)

const (
	MainnetToncenterURL = "https://toncenter.com"
	TestnetToncenterURL = "https://testnet.toncenter.com"
)

// ToncenterProvider queries the toncenter HTTP API v2
type ToncenterProvider struct {
	client *toncenter.Client
}

// NewToncenterProvider creates a provider for baseURL. apiKey may be empty.
// rps > 0 enables the client side rate limit.
func NewToncenterProvider(baseURL, apiKey string, rps float64) *ToncenterProvider {
	var opts []toncenter.Option
	if apiKey != "" {
		opts = append(opts, toncenter.WithAPIKey(apiKey))
	}
	if rps > 0 {
		opts = append(opts, toncenter.WithRateLimit(rps))
	}
	return &ToncenterProvider{client: toncenter.New(baseURL, opts...)}
}

func (p *ToncenterProvider) Balance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	nano, err := p.client.V2().GetAddressBalance(ctx, addr)
	if err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "toncenter balance request failed", err)
	}

	coins, err := nano.Coins(toncenter.TonDecimals)
	if err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "invalid toncenter balance", err)
	}
	return coins, nil
}
