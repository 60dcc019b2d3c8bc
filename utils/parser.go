package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/konnektoren/tonpay/types"
)

// Environment variable names read by ConfigFromEnv
const (
	EnvManifestURL     = "TONPAY_MANIFEST_URL"
	EnvButtonRootID    = "TONPAY_BUTTON_ROOT_ID"
	EnvNetwork         = "TONPAY_NETWORK"
	EnvValidity        = "TONPAY_VALIDITY"
	EnvTimeout         = "TONPAY_TIMEOUT"
	EnvLogLevel        = "TONPAY_LOG_LEVEL"
	EnvEnableMetrics   = "TONPAY_ENABLE_METRICS"
	EnvBalanceSource   = "TONPAY_BALANCE_SOURCE"
	EnvLiteserverURL   = "TONPAY_LITESERVER_CONFIG_URL"
	EnvToncenterURL    = "TONPAY_TONCENTER_URL"
	EnvToncenterAPIKey = "TONPAY_TONCENTER_API_KEY"
	EnvRateLimit       = "TONPAY_RATE_LIMIT"
	EnvSessionStore    = "TONPAY_SESSION_STORE"
	EnvRedisAddress    = "TONPAY_REDIS_ADDRESS"
	EnvRedisPassword   = "TONPAY_REDIS_PASSWORD"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// ValidateStruct runs the struct tag validation
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ValidateConfig validates a configuration and reports failures as CONFIG_ERROR
func ValidateConfig(cfg *types.Config) error {
	if cfg == nil {
		return types.NewError(types.ErrCodeConfigError, "config is nil", nil)
	}

	if err := validate.Struct(cfg); err != nil {
		return types.NewError(types.ErrCodeConfigError, "validation failed", err)
	}

	return nil
}

// ParseConfig parses and validates a Config from JSON. Unset fields take defaults.
func ParseConfig(data []byte) (*types.Config, error) {
	var cfg types.Config

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, types.NewError(types.ErrCodeConfigError, "failed to parse config", err)
	}

	full := cfg.WithDefaults()
	if err := ValidateConfig(full); err != nil {
		return nil, err
	}

	return full, nil
}

// LoadConfigFile reads a JSON config from path
func LoadConfigFile(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewError(types.ErrCodeConfigError, fmt.Sprintf("failed to read config file %s", path), err)
	}
	return ParseConfig(data)
}

const redacted = "REDACTED"

// SerializeConfig converts a Config to indented JSON with secrets masked
func SerializeConfig(cfg *types.Config) ([]byte, error) {
	out := *cfg
	if out.Balance.ToncenterAPIKey != "" {
		out.Balance.ToncenterAPIKey = redacted
	}
	if out.Session.RedisPassword != "" {
		out.Session.RedisPassword = redacted
	}
	return json.MarshalIndent(&out, "", "  ")
}

// ConfigFromEnv builds a Config from TONPAY_* environment variables on top of the defaults
func ConfigFromEnv() (*types.Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (*types.Config, error) {
	cfg := types.DefaultConfig()

	if v, ok := lookup(EnvManifestURL); ok {
		cfg.Client.ManifestURL = v
	}
	if v, ok := lookup(EnvButtonRootID); ok {
		cfg.Client.ButtonRootID = v
	}
	if v, ok := lookup(EnvNetwork); ok {
		network, err := types.ParseNetwork(v)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, EnvNetwork, err)
		}
		cfg.Network = network
	}
	if v, ok := lookup(EnvValidity); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, EnvValidity, err)
		}
		cfg.Validity = d
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvEnableMetrics); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, EnvEnableMetrics, err)
		}
		cfg.EnableMetrics = enabled
	}
	if v, ok := lookup(EnvBalanceSource); ok {
		cfg.Balance.Source = types.BalanceSource(v)
	}
	if v, ok := lookup(EnvLiteserverURL); ok {
		cfg.Balance.LiteserverConfigURL = v
	}
	if v, ok := lookup(EnvToncenterURL); ok {
		cfg.Balance.ToncenterURL = v
	}
	if v, ok := lookup(EnvToncenterAPIKey); ok {
		cfg.Balance.ToncenterAPIKey = v
	}
	if v, ok := lookup(EnvRateLimit); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, EnvRateLimit, err)
		}
		cfg.Balance.RateLimit = rps
	}
	if v, ok := lookup(EnvSessionStore); ok {
		cfg.Session.Store = types.SessionStore(v)
	}
	if v, ok := lookup(EnvRedisAddress); ok {
		cfg.Session.RedisAddress = v
	}
	if v, ok := lookup(EnvRedisPassword); ok {
		cfg.Session.RedisPassword = v
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
