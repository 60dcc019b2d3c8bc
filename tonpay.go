// Package tonpay connects an application to a TON wallet-connect client.
// It owns the client handle, forwards wallet status changes to the
// application's callbacks and submits TON payments through the wallet.
package tonpay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/konnektoren/tonpay/balance"
	"github.com/konnektoren/tonpay/clients"
	"github.com/konnektoren/tonpay/logger"
	"github.com/konnektoren/tonpay/metrics"
	"github.com/konnektoren/tonpay/session"
	"github.com/konnektoren/tonpay/settlement"
	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
	"github.com/konnektoren/tonpay/verification"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xssnick/tonutils-go/tlb"
)

const Version = "0.3.0"

const (
	// NotConnectedReason is passed to DisconnectFunc when the wallet goes away
	NotConnectedReason = "Not connected"

	// ErrorAddress and ErrorBalance are passed to ConnectFunc when
	// initialization or the balance lookup fails
	ErrorAddress = "Error"
	ErrorBalance = "0"
)

// ConnectFunc receives the connected address and its balance in nanoton
type ConnectFunc func(address, balance string)

// DisconnectFunc receives the reason the session ended
type DisconnectFunc func(reason string)

// Adapter bridges the application and a single wallet-connect client.
// All methods are safe for concurrent use.
type Adapter struct {
	config   *types.Config
	logger   logger.Logger
	metrics  metrics.Recorder
	timeout  time.Duration
	validity time.Duration
	network  types.Network
	now      func() time.Time

	factory  clients.Factory
	balances balance.Provider
	sessions session.Store
	verifier verification.Verifier
	settler  settlement.Settler

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	client      clients.WalletClient
	manifestURL string
	sessionKey  string
	unsubscribe func()
	// bumped whenever the observer is replaced so stale observers go quiet
	generation uint64
	session    types.WalletSession
}

// New creates an Adapter from config. A nil config means types.DefaultConfig.
func New(config *types.Config, opts ...Option) (*Adapter, error) {
	if config == nil {
		config = types.DefaultConfig()
	}
	config = config.WithDefaults()

	if err := utils.ValidateConfig(config); err != nil {
		return nil, err
	}

	a := &Adapter{
		config:   config,
		timeout:  config.Timeout,
		validity: config.Validity,
		network:  config.Network,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !a.network.IsValid() {
		return nil, types.NewError(types.ErrCodeConfigError, fmt.Sprintf("unsupported network: %s", a.network), nil)
	}

	if a.logger == nil {
		zl, err := logger.NewZapLogger(config.LogLevel)
		if err != nil {
			return nil, types.NewError(types.ErrCodeConfigError, "failed to create logger", err)
		}
		a.logger = zl
	}

	if a.metrics == nil {
		a.metrics = metrics.NoopRecorder{}
		if config.EnableMetrics {
			rec, err := metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)
			if err != nil {
				return nil, types.NewError(types.ErrCodeConfigError, "failed to register metrics", err)
			}
			a.metrics = rec
		}
	}

	a.logger = logger.With(a.logger, map[string]any{
		"component": "adapter",
		"network":   a.network.String(),
	})

	a.ctx, a.cancel = context.WithCancel(context.Background())

	if a.balances == nil {
		ctx, cancel := context.WithTimeout(a.ctx, a.timeout)
		p, err := balance.FromConfig(ctx, config.Balance, a.network)
		cancel()
		if err != nil {
			a.cancel()
			return nil, err
		}
		a.balances = p
	}

	if a.sessions == nil {
		ctx, cancel := context.WithTimeout(a.ctx, a.timeout)
		s, err := session.FromConfig(ctx, config.Session)
		cancel()
		if err != nil {
			a.cancel()
			balance.Close(a.balances)
			return nil, err
		}
		a.sessions = s
	}

	if a.factory == nil {
		a.factory = clients.LinkFactory(nil)
	}

	a.verifier = verification.NewVerificationService(a.now)
	a.settler = settlement.NewSettlementService(a.logger, a.metrics, a.verifier)

	return a, nil
}

// NewWithDefaults creates an Adapter with the default configuration.
// It panics if the defaults cannot be applied.
func NewWithDefaults(opts ...Option) *Adapter {
	a, err := New(types.DefaultConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("tonpay: %v", err))
	}
	return a
}

// Initialize creates the wallet client on first use and subscribes to its
// status changes. Later calls reuse the client and replace the callbacks.
//
// Failures are logged, reported through onConnect(ErrorAddress, ErrorBalance)
// and returned as INITIALIZATION_FAILURE. Initialize never panics.
func (a *Adapter) Initialize(
	ctx context.Context,
	manifestURL string,
	onConnect ConnectFunc,
	onDisconnect DisconnectFunc,
) (client clients.WalletClient, err error) {
	if onConnect == nil {
		onConnect = func(string, string) {}
	}
	if onDisconnect == nil {
		onDisconnect = func(string) {}
	}

	defer func() {
		if r := recover(); r != nil {
			client = nil
			err = types.NewError(types.ErrCodeInitializationFailure, "initialization panicked", fmt.Errorf("%v", r))
		}
		if err != nil {
			a.metrics.IncCounter(metrics.EventInitializationFailed, a.labels())
			a.logger.Error("wallet client initialization failed", map[string]any{
				"manifest_url": manifestURL,
				"error":        err,
			})
			a.notifyConnect(onConnect, ErrorAddress, ErrorBalance)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.ErrCodeInitializationFailure, "initialization canceled", err)
	}

	client, err = a.ensureClient(manifestURL)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.mu.Unlock()

	unsubscribe := client.OnStatusChange(a.observer(gen, onConnect, onDisconnect))

	a.mu.Lock()
	if gen != a.generation {
		// a concurrent Initialize or Reset won
		a.mu.Unlock()
		unsubscribe()
		return client, nil
	}
	prev := a.unsubscribe
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	if prev != nil {
		prev()
	}

	a.metrics.IncCounter(metrics.EventInitialized, a.labels())
	a.logger.Info("wallet client initialized", map[string]any{
		"manifest_url": a.ManifestURL(),
	})

	a.restoreSession(ctx, client)
	return client, nil
}

func (a *Adapter) ensureClient(manifestURL string) (clients.WalletClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		if manifestURL != "" && manifestURL != a.manifestURL {
			a.logger.Warn("wallet client already initialized, ignoring manifest url", map[string]any{
				"manifest_url": manifestURL,
				"active_url":   a.manifestURL,
			})
		}
		return a.client, nil
	}

	cfg := a.config.Client
	if manifestURL != "" {
		cfg.ManifestURL = manifestURL
	}
	if cfg.ManifestURL == "" {
		return nil, types.NewError(types.ErrCodeInitializationFailure, "manifest url is required", nil)
	}

	client, err := a.factory(cfg)
	if err != nil {
		return nil, types.NewError(types.ErrCodeInitializationFailure, "failed to create wallet client", err)
	}
	if client == nil {
		return nil, types.NewError(types.ErrCodeInitializationFailure, "wallet client factory returned nil", nil)
	}

	a.client = client
	a.manifestURL = cfg.ManifestURL
	a.sessionKey = a.config.Session.Key
	if a.sessionKey == "" {
		a.sessionKey = cfg.ManifestURL
	}
	return client, nil
}

func (a *Adapter) observer(gen uint64, onConnect ConnectFunc, onDisconnect DisconnectFunc) clients.StatusHandler {
	return func(wallet *types.Wallet) {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("status handler panicked", map[string]any{"panic": fmt.Sprint(r)})
				a.notifyConnect(onConnect, ErrorAddress, ErrorBalance)
			}
		}()

		a.mu.Lock()
		if gen != a.generation {
			a.mu.Unlock()
			return
		}

		if wallet == nil {
			a.session = types.WalletSession{}
			key := a.sessionKey
			a.mu.Unlock()

			a.forgetSession(key)
			a.metrics.IncCounter(metrics.EventWalletDisconnected, a.labels())
			a.logger.Info("wallet disconnected", nil)
			onDisconnect(NotConnectedReason)
			return
		}

		addr := wallet.Account.Address
		a.session = types.WalletSession{
			Address:     addr,
			Chain:       wallet.Account.Chain,
			Connected:   true,
			ConnectedAt: a.now(),
		}
		current, key := a.session, a.sessionKey
		a.mu.Unlock()

		a.saveSession(key, current)

		a.metrics.IncCounter(metrics.EventWalletConnected, a.labels())
		a.logger.Info("wallet connected", map[string]any{
			"address": addr,
			"device":  wallet.Device,
		})

		coins, err := a.lookupBalance(a.ctx, addr)
		if err != nil {
			a.metrics.IncCounter(metrics.EventBalanceLookupFailed, a.labels())
			a.logger.Error("balance lookup failed", map[string]any{
				"address": addr,
				"error":   err,
			})
			onConnect(ErrorAddress, ErrorBalance)
			return
		}

		onConnect(addr, coins.Nano().String())
	}
}

// restoreSession resumes a persisted session on clients that support it
func (a *Adapter) restoreSession(ctx context.Context, client clients.WalletClient) {
	restorer, ok := client.(clients.Restorer)
	if a.sessions == nil || !ok || client.Account() != nil {
		return
	}

	a.mu.Lock()
	key := a.sessionKey
	a.mu.Unlock()

	saved, err := a.sessions.Load(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return
	}
	if err != nil {
		a.logger.Warn("failed to load wallet session", map[string]any{"error": err})
		return
	}
	if !saved.Connected || (saved.Chain != "" && saved.Chain != a.network) {
		return
	}

	a.logger.Info("restoring wallet session", map[string]any{"address": saved.Address})
	if err := restorer.Restore(types.Account{Address: saved.Address, Chain: saved.Chain}); err != nil {
		a.logger.Warn("failed to restore wallet session", map[string]any{
			"address": saved.Address,
			"error":   err,
		})
	}
}

func (a *Adapter) saveSession(key string, s types.WalletSession) {
	if a.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, a.timeout)
	defer cancel()
	if err := a.sessions.Save(ctx, key, s); err != nil {
		a.logger.Warn("failed to save wallet session", map[string]any{"error": err})
	}
}

func (a *Adapter) forgetSession(key string) {
	if a.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, a.timeout)
	defer cancel()
	if err := a.sessions.Delete(ctx, key); err != nil {
		a.logger.Warn("failed to delete wallet session", map[string]any{"error": err})
	}
}

// Balance looks up the balance of the connected wallet
func (a *Adapter) Balance(ctx context.Context) (tlb.Coins, error) {
	a.mu.Lock()
	s := a.session
	a.mu.Unlock()

	if !s.Connected {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeNoAccount, "no account connected", nil)
	}
	return a.lookupBalance(ctx, s.Address)
}

func (a *Adapter) lookupBalance(ctx context.Context, addr string) (tlb.Coins, error) {
	parsed, err := utils.ParseAddress(addr)
	if err != nil {
		return tlb.ZeroCoins, types.NewError(types.ErrCodeBalanceLookupFailed, "invalid wallet address", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	coins, err := a.balances.Balance(ctx, parsed)
	a.metrics.ObserveLatency(metrics.OpBalanceLookup, time.Since(start), a.labels())
	return coins, err
}

// notifyConnect calls fn and swallows a panic from it
func (a *Adapter) notifyConnect(fn ConnectFunc, address, balance string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("connect callback panicked", map[string]any{"panic": fmt.Sprint(r)})
		}
	}()
	fn(address, balance)
}

// SubmitPayment sends amount to destination through the connected wallet.
// The wallet's result is returned unchanged. Nothing is retried.
func (a *Adapter) SubmitPayment(ctx context.Context, destination string, amount tlb.Coins) (*types.PaymentResult, error) {
	return a.SubmitPaymentRequest(ctx, &types.PaymentRequest{
		DestinationAddress: destination,
		Amount:             amount,
	})
}

// SubmitPaymentRequest sends a caller built request. An empty ID, network
// or deadline is filled from the adapter configuration.
func (a *Adapter) SubmitPaymentRequest(ctx context.Context, request *types.PaymentRequest) (*types.PaymentResult, error) {
	a.mu.Lock()
	client, connected := a.client, a.session.Connected
	a.mu.Unlock()

	if client == nil {
		a.logger.Warn("payment rejected, wallet client not initialized", nil)
		return nil, types.NewError(types.ErrCodeNotInitialized, "wallet client is not initialized", nil)
	}
	if !connected || client.Account() == nil {
		a.logger.Warn("payment rejected, no account connected", nil)
		return nil, types.NewError(types.ErrCodeNoAccount, "no account connected", nil)
	}
	if request == nil {
		return nil, types.NewError(types.ErrCodeInvalidRequest, "payment request is nil", nil)
	}

	req := *request
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Network == "" {
		req.Network = a.network
	}
	if req.ValidUntil == 0 && a.validity > 0 {
		req.ValidUntil = a.now().Add(a.validity).Unix()
	}

	if err := a.verifier.Verify(&req); err != nil {
		a.metrics.IncCounter(metrics.EventPaymentRejected, a.labels())
		a.logger.Warn("payment request rejected", map[string]any{
			"request_id": req.ID,
			"error":      err,
		})
		return nil, err
	}

	return a.settler.Settle(ctx, client, &req)
}

// Session returns a snapshot of the current wallet session
func (a *Adapter) Session() types.WalletSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Client returns the wallet client, or nil before Initialize
func (a *Adapter) Client() clients.WalletClient {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.client
}

func (a *Adapter) ManifestURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.manifestURL
}

func (a *Adapter) Network() types.Network {
	return a.network
}

// Reset drops the client and the session. The next Initialize creates a new client.
func (a *Adapter) Reset() {
	a.mu.Lock()
	client, unsubscribe := a.client, a.unsubscribe
	a.client = nil
	a.manifestURL = ""
	a.sessionKey = ""
	a.unsubscribe = nil
	a.generation++
	a.session = types.WalletSession{}
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if client != nil {
		client.Close()
		a.logger.Info("wallet client reset", nil)
	}
}

// Close resets the adapter and releases the balance provider and the
// session store. A persisted session survives Close.
func (a *Adapter) Close() {
	a.Reset()
	a.cancel()
	balance.Close(a.balances)
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.logger.Warn("failed to close session store", map[string]any{"error": err})
		}
	}
}

func (a *Adapter) labels() map[string]string {
	return metrics.NetworkLabels(a.network.String())
}

var (
	defaultMu      sync.Mutex
	defaultAdapter *Adapter
)

// Default returns the process wide adapter, creating it with defaults on first use
func Default() *Adapter {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultAdapter == nil {
		defaultAdapter = NewWithDefaults()
	}
	return defaultAdapter
}

// SetDefault replaces the process wide adapter. The previous one is not closed.
func SetDefault(a *Adapter) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAdapter = a
}

// ResetDefault closes and forgets the process wide adapter
func ResetDefault() {
	defaultMu.Lock()
	a := defaultAdapter
	defaultAdapter = nil
	defaultMu.Unlock()

	if a != nil {
		a.Close()
	}
}

// Initialize calls Initialize on the Default adapter
func Initialize(ctx context.Context, manifestURL string, onConnect ConnectFunc, onDisconnect DisconnectFunc) (clients.WalletClient, error) {
	return Default().Initialize(ctx, manifestURL, onConnect, onDisconnect)
}

// SubmitPayment calls SubmitPayment on the Default adapter
func SubmitPayment(ctx context.Context, destination string, amount tlb.Coins) (*types.PaymentResult, error) {
	return Default().SubmitPayment(ctx, destination, amount)
}
