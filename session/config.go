package session

import (
	"context"
	"fmt"

	"github.com/konnektoren/tonpay/types"
)

// FromConfig builds the store selected by cfg.Store. It returns nil, nil
// when persistence is disabled.
func FromConfig(ctx context.Context, cfg types.SessionConfig) (Store, error) {
	switch cfg.Store {
	case "", types.SessionStoreNone:
		return nil, nil
	case types.SessionStoreMemory:
		return NewMemoryStore(), nil
	case types.SessionStoreRedis:
		s, err := NewRedisStore(ctx, RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
		})
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, "failed to create redis session store", err)
		}
		return s, nil
	default:
		return nil, types.NewError(types.ErrCodeConfigError, fmt.Sprintf("unknown session store %q", cfg.Store), nil)
	}
}
