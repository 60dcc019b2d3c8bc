package types

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// MaxMessagesPerTransaction is the largest message batch wallets accept in one request
const MaxMessagesPerTransaction = 4

// Account is the wallet account reported by the wallet-connect client
type Account struct {
	// Address as reported by the wallet, raw ("0:<hex>") or user friendly.
	Address string `json:"address"`

	Chain Network `json:"chain"`

	PublicKey string `json:"publicKey,omitempty"`

	// Base64 encoded state init of the wallet contract, if the wallet shares it.
	WalletStateInit string `json:"walletStateInit,omitempty"`
}

// Wallet describes a connected wallet in a status change event
type Wallet struct {
	Account Account `json:"account"`
	Device  string  `json:"device,omitempty"`
}

// WalletSession is the adapter's view of the current connection
type WalletSession struct {
	Address     string    `json:"address,omitempty"`
	Chain       Network   `json:"chain,omitempty"`
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connectedAt,omitempty"`
}

// PaymentRequest describes one transfer attempt. It is not persisted.
type PaymentRequest struct {
	ID string `json:"id"`

	// Address receiving the payment.
	DestinationAddress string `json:"destinationAddress" validate:"required"`

	// Amount in the chain's smallest unit (nanoton).
	Amount tlb.Coins `json:"amount"`

	// Unix seconds after which the wallet must refuse the request, 0 for none.
	ValidUntil int64 `json:"validUntil,omitempty" validate:"gte=0"`

	Network Network `json:"network" validate:"required,oneof=mainnet testnet"`

	// Optional sender address, lets the wallet pick the right account.
	From string `json:"from,omitempty"`

	// Optional text comment attached to the transfer.
	Comment string `json:"comment,omitempty" validate:"max=120"`
}

// TransactionRequest is the request schema handed to the wallet-connect client
type TransactionRequest struct {
	ValidUntil int64     `json:"validUntil,omitempty"`
	Network    string    `json:"network,omitempty" validate:"omitempty,oneof=-239 -3"`
	From       string    `json:"from,omitempty"`
	Messages   []Message `json:"messages" validate:"required,min=1,max=4,dive"`
}

// Message is a single transfer inside a TransactionRequest
type Message struct {
	Address string `json:"address" validate:"required"`

	// Nanoton amount as a decimal string.
	Amount string `json:"amount" validate:"required,numeric"`

	// Base64 encoded BOC of the message body.
	Payload string `json:"payload,omitempty" validate:"omitempty,base64"`

	StateInit string `json:"stateInit,omitempty" validate:"omitempty,base64"`
}

// PaymentResult is returned by the wallet-connect client on success.
// The adapter passes it through untouched.
type PaymentResult struct {
	// Base64 encoded BOC of the signed external message.
	BOC   string    `json:"boc,omitempty"`
	Extra ExtraData `json:"extra,omitempty"`
}

// ExtraData contains additional client-specific data
type ExtraData map[string]interface{}

// TransactionRequest converts the payment into the wire request
func (r *PaymentRequest) TransactionRequest() (*TransactionRequest, error) {
	msg := Message{
		Address: r.DestinationAddress,
		Amount:  r.Amount.Nano().String(),
	}

	if r.Comment != "" {
		payload, err := CommentPayload(r.Comment)
		if err != nil {
			return nil, err
		}
		msg.Payload = payload
	}

	return &TransactionRequest{
		ValidUntil: r.ValidUntil,
		Network:    r.Network.ChainID(),
		From:       r.From,
		Messages:   []Message{msg},
	}, nil
}

// CommentPayload encodes a text comment as a base64 message body BOC
func CommentPayload(comment string) (string, error) {
	b := cell.BeginCell()
	if err := b.StoreUInt(0, 32); err != nil {
		return "", fmt.Errorf("failed to store comment opcode: %w", err)
	}
	if err := b.StoreStringSnake(comment); err != nil {
		return "", fmt.Errorf("failed to store comment: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b.EndCell().ToBOC()), nil
}
