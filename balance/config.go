package balance

import (
	"context"
	"fmt"

	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
)

// FromConfig builds the provider selected by cfg.Source. Missing endpoints
// fall back to the public ones for network.
func FromConfig(ctx context.Context, cfg types.BalanceConfig, network types.Network) (Provider, error) {
	switch cfg.Source {
	case "", types.BalanceSourceStatic:
		amount := DefaultStaticBalance
		if cfg.StaticNano != "" {
			c, err := utils.ParseNanoAmount(cfg.StaticNano)
			if err != nil {
				return nil, types.NewError(types.ErrCodeConfigError, "invalid static balance", err)
			}
			amount = c
		}
		return NewStaticProvider(amount), nil

	case types.BalanceSourceLiteserver:
		configURL := cfg.LiteserverConfigURL
		if configURL == "" {
			configURL = MainnetGlobalConfigURL
			if network.IsTestnet() {
				configURL = TestnetGlobalConfigURL
			}
		}
		p, err := NewLiteserverProvider(ctx, configURL)
		if err != nil {
			return nil, err
		}
		return limit(p, cfg.RateLimit), nil

	case types.BalanceSourceToncenter:
		baseURL := cfg.ToncenterURL
		if baseURL == "" {
			baseURL = MainnetToncenterURL
			if network.IsTestnet() {
				baseURL = TestnetToncenterURL
			}
		}
		// toncenter applies the limit itself
		return NewToncenterProvider(baseURL, cfg.ToncenterAPIKey, cfg.RateLimit), nil

	default:
		return nil, types.NewError(types.ErrCodeConfigError, fmt.Sprintf("unknown balance source %q", cfg.Source), nil)
	}
}

func limit(p Provider, rps float64) Provider {
	if rps <= 0 {
		return p
	}
	return NewRateLimited(p, rps)
}
