package types

import "time"

const (
	DefaultButtonRootID = "ton-wallet-button"
	DefaultValidity     = 20 * time.Minute
	DefaultTimeout      = 30 * time.Second
)

// BalanceSource selects how account balances are resolved
type BalanceSource string

const (
	BalanceSourceStatic     BalanceSource = "static"
	BalanceSourceLiteserver BalanceSource = "liteserver"
	BalanceSourceToncenter  BalanceSource = "toncenter"
)

// SessionStore selects where the wallet session is persisted
type SessionStore string

const (
	SessionStoreNone   SessionStore = "none"
	SessionStoreMemory SessionStore = "memory"
	SessionStoreRedis  SessionStore = "redis"
)

// ClientConfig contains configuration for the wallet-connect client
type ClientConfig struct {
	// URL of the wallet-connect app manifest.
	ManifestURL string `json:"manifestUrl" validate:"omitempty,url"`

	// DOM id of the connect button, for clients rendering one.
	ButtonRootID string `json:"buttonRootId,omitempty"`
}

// BalanceConfig contains configuration for the balance lookup
type BalanceConfig struct {
	Source BalanceSource `json:"source,omitempty" validate:"omitempty,oneof=static liteserver toncenter"`

	// Nanoton amount reported by the static source.
	StaticNano string `json:"staticNano,omitempty" validate:"omitempty,numeric"`

	// Global config URL used to discover liteservers.
	LiteserverConfigURL string `json:"liteserverConfigUrl,omitempty" validate:"omitempty,url"`

	ToncenterURL    string `json:"toncenterUrl,omitempty" validate:"omitempty,url"`
	ToncenterAPIKey string `json:"toncenterApiKey,omitempty"`

	// Requests per second, 0 disables limiting.
	RateLimit float64 `json:"rateLimit,omitempty" validate:"gte=0"`
}

// SessionConfig contains configuration for session persistence
type SessionConfig struct {
	Store SessionStore `json:"store,omitempty" validate:"omitempty,oneof=none memory redis"`

	// Key the session is stored under, defaults to the manifest URL.
	Key string `json:"key,omitempty"`

	RedisAddress  string        `json:"redisAddress,omitempty" validate:"omitempty,hostname_port"`
	RedisPassword string        `json:"redisPassword,omitempty"`
	RedisDB       int           `json:"redisDb,omitempty" validate:"gte=0,lte=15"`
	KeyPrefix     string        `json:"keyPrefix,omitempty"`
	TTL           time.Duration `json:"ttl,omitempty" validate:"gte=0"`
}

// Config contains global configuration for the tonpay library
type Config struct {
	Client        ClientConfig  `json:"client"`
	Network       Network       `json:"network,omitempty" validate:"omitempty,oneof=mainnet testnet"`
	Validity      time.Duration `json:"validity,omitempty" validate:"gte=0"`
	Timeout       time.Duration `json:"timeout,omitempty" validate:"gte=0"`
	LogLevel      string        `json:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics bool          `json:"enableMetrics,omitempty"`
	Balance       BalanceConfig `json:"balance"`
	Session       SessionConfig `json:"session"`
}

// DefaultConfig returns the configuration used when none is given.
// Payments go to testnet unless the network is set explicitly.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			ButtonRootID: DefaultButtonRootID,
		},
		Network:  NetworkTestnet,
		Validity: DefaultValidity,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
		Balance: BalanceConfig{
			Source: BalanceSourceStatic,
		},
	}
}

// WithDefaults fills unset fields from DefaultConfig
func (c Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c.Client.ButtonRootID == "" {
		c.Client.ButtonRootID = d.Client.ButtonRootID
	}
	if c.Network == "" {
		c.Network = d.Network
	}
	if c.Validity == 0 {
		c.Validity = d.Validity
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Balance.Source == "" {
		c.Balance.Source = d.Balance.Source
	}
	return &c
}
