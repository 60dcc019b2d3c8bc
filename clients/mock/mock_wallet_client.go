package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/konnektoren/tonpay/clients"
	"github.com/konnektoren/tonpay/types"
)

// DefaultBOC is returned by SendTransaction when no SendFunc is set
const DefaultBOC = "te6cckEBAQEAAgAAAEysuc0="

// MockWalletClient implements clients.WalletClient for tests and demos.
// Status events are raised with Emit and delivered synchronously.
type MockWalletClient struct {
	mu       sync.Mutex
	account  *types.Account
	handlers map[uint64]clients.StatusHandler
	order    []uint64
	nextID   uint64

	// SendFunc overrides the SendTransaction result when set
	SendFunc func(ctx context.Context, tx *types.TransactionRequest) (*types.PaymentResult, error)

	sent       []*types.TransactionRequest
	closeCalls int
}

var (
	_ clients.WalletClient = (*MockWalletClient)(nil)
	_ clients.Restorer     = (*MockWalletClient)(nil)
)

func NewMockWalletClient() *MockWalletClient {
	return &MockWalletClient{
		handlers: make(map[uint64]clients.StatusHandler),
	}
}

// Factory returns a clients.Factory that always hands out m
func (m *MockWalletClient) Factory() clients.Factory {
	return func(types.ClientConfig) (clients.WalletClient, error) {
		return m, nil
	}
}

func (m *MockWalletClient) OnStatusChange(handler clients.StatusHandler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[id] = handler
	m.order = append(m.order, id)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers, id)
		m.order = slices.DeleteFunc(m.order, func(v uint64) bool { return v == id })
	}
}

// SetAccount changes the connected account without raising an event
func (m *MockWalletClient) SetAccount(account *types.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
}

// Emit updates the account from wallet and calls every subscribed handler.
// A nil wallet simulates a disconnect.
func (m *MockWalletClient) Emit(wallet *types.Wallet) {
	m.mu.Lock()
	if wallet == nil {
		m.account = nil
	} else {
		acc := wallet.Account
		m.account = &acc
	}
	handlers := make([]clients.StatusHandler, 0, len(m.order))
	for _, id := range m.order {
		if h, ok := m.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(wallet)
	}
}

// Connect is shorthand for emitting a wallet connected with address
func (m *MockWalletClient) Connect(address string, chain types.Network) {
	m.Emit(&types.Wallet{
		Account: types.Account{Address: address, Chain: chain},
		Device:  "mock",
	})
}

// Restore emits account as a restored wallet
func (m *MockWalletClient) Restore(account types.Account) error {
	m.Emit(&types.Wallet{Account: account, Device: "restored"})
	return nil
}

func (m *MockWalletClient) Disconnect() {
	m.Emit(nil)
}

// Subscribers reports how many status handlers are registered
func (m *MockWalletClient) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

func (m *MockWalletClient) Account() *types.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return nil
	}
	acc := *m.account
	return &acc
}

func (m *MockWalletClient) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*types.PaymentResult, error) {
	m.mu.Lock()
	m.sent = append(m.sent, tx)
	send := m.SendFunc
	m.mu.Unlock()

	if send != nil {
		return send(ctx, tx)
	}
	return &types.PaymentResult{BOC: DefaultBOC}, nil
}

// Sent returns the transactions passed to SendTransaction, oldest first
func (m *MockWalletClient) Sent() []*types.TransactionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.TransactionRequest, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockWalletClient) SendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *MockWalletClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
}

func (m *MockWalletClient) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}
