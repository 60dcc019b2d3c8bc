package clients

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
)

// LinkHandler presents transfer links to the user (QR code, deep link button).
// Returning an error rejects the transaction.
type LinkHandler func(ctx context.Context, links []string) error

// LinkClient drives wallets through ton://transfer links. The embedding
// application reports which account is connected; transactions are rendered
// as one link per message and handed to the LinkHandler.
type LinkClient struct {
	config  types.ClientConfig
	deliver LinkHandler
	now     func() time.Time

	mu       sync.RWMutex
	account  *types.Account
	handlers []statusEntry
	nextID   uint64
	closed   bool

	// status events not yet delivered, in the order the account changed.
	// One caller at a time drains the queue; events raised meanwhile,
	// including from inside a handler, are queued behind it.
	pending  []*types.Wallet
	draining bool
}

type statusEntry struct {
	id      uint64
	handler StatusHandler
}

var (
	_ WalletClient = (*LinkClient)(nil)
	_ Restorer     = (*LinkClient)(nil)
)

// NewLinkClient creates a link client. deliver may be nil, links are then
// only returned in the PaymentResult.
func NewLinkClient(cfg types.ClientConfig, deliver LinkHandler) (*LinkClient, error) {
	if cfg.ManifestURL == "" {
		return nil, fmt.Errorf("manifest url is required")
	}
	if _, err := url.ParseRequestURI(cfg.ManifestURL); err != nil {
		return nil, fmt.Errorf("invalid manifest url: %w", err)
	}

	return &LinkClient{
		config:  cfg,
		deliver: deliver,
		now:     time.Now,
	}, nil
}

// LinkFactory returns a Factory producing LinkClients that share deliver
func LinkFactory(deliver LinkHandler) Factory {
	return func(cfg types.ClientConfig) (WalletClient, error) {
		return NewLinkClient(cfg, deliver)
	}
}

func (c *LinkClient) ManifestURL() string {
	return c.config.ManifestURL
}

// Connect marks account as connected and notifies status handlers
func (c *LinkClient) Connect(account types.Account) error {
	if _, err := utils.ParseAddress(account.Address); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	acc := account
	c.account = &acc
	c.enqueue(&types.Wallet{Account: account})
	return nil
}

// Restore resumes a persisted account, it behaves like Connect
func (c *LinkClient) Restore(account types.Account) error {
	return c.Connect(account)
}

// Disconnect clears the account and notifies status handlers with nil.
// Called from a status handler, it returns at once and the event is
// delivered after the current one.
func (c *LinkClient) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.account = nil
	c.enqueue(nil)
}

// enqueue queues wallet and delivers the queue unless another call is
// already doing so. Caller holds mu, enqueue releases it.
func (c *LinkClient) enqueue(wallet *types.Wallet) {
	c.pending = append(c.pending, wallet)
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	c.drain()
}

func (c *LinkClient) drain() {
	finished := false
	defer func() {
		// a panicking handler must not leave the queue stuck
		if !finished {
			c.mu.Lock()
			c.draining = false
			c.pending = nil
			c.mu.Unlock()
		}
	}()

	for {
		c.mu.Lock()
		if len(c.pending) == 0 || c.closed {
			c.draining = false
			c.pending = nil
			c.mu.Unlock()
			finished = true
			return
		}
		wallet := c.pending[0]
		c.pending = c.pending[1:]
		handlers := c.snapshot()
		c.mu.Unlock()

		for _, h := range handlers {
			h(wallet)
		}
	}
}

func (c *LinkClient) OnStatusChange(handler StatusHandler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.handlers = append(c.handlers, statusEntry{id: id, handler: handler})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.handlers {
			if e.id == id {
				c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
				return
			}
		}
	}
}

func (c *LinkClient) Account() *types.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.account == nil {
		return nil
	}
	acc := *c.account
	return &acc
}

func (c *LinkClient) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*types.PaymentResult, error) {
	c.mu.RLock()
	closed, connected := c.closed, c.account != nil
	c.mu.RUnlock()

	if closed {
		return nil, ErrClientClosed
	}
	if !connected {
		return nil, ErrNotConnected
	}
	if tx == nil || len(tx.Messages) == 0 {
		return nil, ErrNoMessages
	}
	if tx.ValidUntil != 0 && c.now().Unix() >= tx.ValidUntil {
		return nil, ErrRequestExpired
	}

	links := make([]string, 0, len(tx.Messages))
	for _, msg := range tx.Messages {
		link, err := TransferLink(msg, tx.ValidUntil)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if c.deliver != nil {
		if err := c.deliver(ctx, links); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
	}

	return &types.PaymentResult{
		Extra: types.ExtraData{"links": links},
	}, nil
}

func (c *LinkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.account = nil
	c.handlers = nil
	c.pending = nil
}

// snapshot copies the handlers, caller holds mu
func (c *LinkClient) snapshot() []StatusHandler {
	out := make([]StatusHandler, 0, len(c.handlers))
	for _, e := range c.handlers {
		out = append(out, e.handler)
	}
	return out
}

// TransferLink renders msg as a ton://transfer link. validUntil, when set,
// becomes the exp parameter.
func TransferLink(msg types.Message, validUntil int64) (string, error) {
	addr, err := utils.ParseAddress(msg.Address)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("amount", msg.Amount)

	if msg.Payload != "" {
		boc, err := base64.StdEncoding.DecodeString(msg.Payload)
		if err != nil {
			return "", fmt.Errorf("invalid payload encoding: %w", err)
		}
		q.Set("bin", base64.URLEncoding.EncodeToString(boc))
	}
	if msg.StateInit != "" {
		boc, err := base64.StdEncoding.DecodeString(msg.StateInit)
		if err != nil {
			return "", fmt.Errorf("invalid state init encoding: %w", err)
		}
		q.Set("init", base64.URLEncoding.EncodeToString(boc))
	}
	if validUntil != 0 {
		q.Set("exp", strconv.FormatInt(validUntil, 10))
	}

	return "ton://transfer/" + addr.String() + "?" + q.Encode(), nil
}
