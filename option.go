package tonpay

import (
	"time"

	"github.com/konnektoren/tonpay/balance"
	"github.com/konnektoren/tonpay/clients"
	"github.com/konnektoren/tonpay/logger"
	"github.com/konnektoren/tonpay/metrics"
	"github.com/konnektoren/tonpay/session"
	"github.com/konnektoren/tonpay/types"
)

type Option func(*Adapter)

func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *Adapter) {
		a.metrics = r
	}
}

// WithTimeout bounds balance lookups
func WithTimeout(t time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = t
	}
}

// WithClientFactory replaces the factory used to create the wallet client
func WithClientFactory(f clients.Factory) Option {
	return func(a *Adapter) {
		a.factory = f
	}
}

func WithBalanceProvider(p balance.Provider) Option {
	return func(a *Adapter) {
		a.balances = p
	}
}

func WithNetwork(n types.Network) Option {
	return func(a *Adapter) {
		a.network = n
	}
}

// WithValidity sets how long a submitted payment stays valid
func WithValidity(d time.Duration) Option {
	return func(a *Adapter) {
		a.validity = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// WithSessionStore persists the wallet session so Initialize can restore it
func WithSessionStore(s session.Store) Option {
	return func(a *Adapter) {
		a.sessions = s
	}
}
