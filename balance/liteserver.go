package balance

import (
	"context"

	"github.com/konnektoren/tonpay/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
)

const (
	MainnetGlobalConfigURL = "https://ton.org/global.config.json"
	TestnetGlobalConfigURL = "https://ton.org/testnet-global.config.json"
)

// AccountAPI is the part of ton.APIClientWrapped used for balance lookups
type AccountAPI interface {
	CurrentMasterchainInfo(ctx context.Context) (*ton.BlockIDExt, error)
	GetAccount(ctx context.Context, block *ton.BlockIDExt, addr *address.Address) (*tlb.Account, error)
}

// LiteserverProvider reads account state straight from liteservers
type LiteserverProvider struct {
	api  AccountAPI
	pool *liteclient.ConnectionPool
}

// NewLiteserverProvider connects to the liteservers listed in the global
// config at configURL.
func NewLiteserverProvider(ctx context.Context, configURL string) (*LiteserverProvider, error) {
	cfg, err := liteclient.GetConfigFromUrl(ctx, configURL)
	if err != nil {
		return nil, types.NewError(types.ErrCodeConfigError, "failed to fetch liteserver config", err)
	}

	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfig(ctx, cfg); err != nil {
		pool.Stop()
		return nil, types.NewError(types.ErrCodeConfigError, "failed to connect to liteservers", err)
	}

	api := ton.NewAPIClient(pool, ton.ProofCheckPolicyFast).WithRetry()
	return &LiteserverProvider{api: api, pool: pool}, nil
}

// NewLiteserverProviderWithAPI wraps an existing API client. The caller owns its connections.
func NewLiteserverProviderWithAPI(api AccountAPI) *LiteserverProvider {
	return &LiteserverProvider{api: api}
}

func (p *LiteserverProvider) Balance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	if p.pool != nil {
		ctx = p.pool.StickyContext(ctx)
	}

	block, err := p.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "failed to get masterchain info", err)
	}

	acc, err := p.api.GetAccount(ctx, block, addr)
	if err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "failed to get account", err)
	}

	// never deployed
	if !acc.IsActive || acc.State == nil {
		return tlb.ZeroCoins, nil
	}
	return acc.State.Balance, nil
}

func (p *LiteserverProvider) Close() {
	if p.pool != nil {
		p.pool.Stop()
	}
}
