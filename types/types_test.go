package types

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func TestParseNetwork(t *testing.T) {
	for in, want := range map[string]Network{
		"mainnet": NetworkMainnet,
		"main":    NetworkMainnet,
		"-239":    NetworkMainnet,
		"Testnet": NetworkTestnet,
		"test":    NetworkTestnet,
		"-3":      NetworkTestnet,
	} {
		got, err := ParseNetwork(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseNetwork("devnet")
	require.Error(t, err)
}

func TestNetwork_ChainID(t *testing.T) {
	assert.Equal(t, "-3", NetworkTestnet.ChainID())
	assert.Equal(t, "-239", NetworkMainnet.ChainID())
	assert.True(t, NetworkTestnet.IsTestnet())
	assert.False(t, NetworkMainnet.IsTestnet())
}

func TestPaymentRequest_TransactionRequest(t *testing.T) {
	req := &PaymentRequest{
		DestinationAddress: "EQdest",
		Amount:             tlb.FromNanoTONU(100000000),
		ValidUntil:         1_700_001_200,
		Network:            NetworkTestnet,
	}

	tx, err := req.TransactionRequest()
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_001_200), tx.ValidUntil)
	assert.Equal(t, ChainIDTestnet, tx.Network)
	require.Len(t, tx.Messages, 1)
	assert.Equal(t, "EQdest", tx.Messages[0].Address)
	assert.Equal(t, "100000000", tx.Messages[0].Amount)
	assert.Empty(t, tx.Messages[0].Payload)
}

func TestPaymentRequest_CommentPayload(t *testing.T) {
	req := &PaymentRequest{
		DestinationAddress: "EQdest",
		Amount:             tlb.MustFromTON("1"),
		Network:            NetworkMainnet,
		Comment:            "order-42",
	}

	tx, err := req.TransactionRequest()
	require.NoError(t, err)
	require.NotEmpty(t, tx.Messages[0].Payload)

	boc, err := base64.StdEncoding.DecodeString(tx.Messages[0].Payload)
	require.NoError(t, err)

	body, err := cell.FromBOC(boc)
	require.NoError(t, err)

	slice := body.BeginParse()
	op, err := slice.LoadUInt(32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), op)

	text, err := slice.LoadStringSnake()
	require.NoError(t, err)
	assert.Equal(t, "order-42", text)
}

func TestTonPayError_Is(t *testing.T) {
	cause := errors.New("user rejected")
	err := NewError(ErrCodeTransactionFailure, "transaction submission failed", cause)

	assert.ErrorIs(t, err, ErrTransactionFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNoAccount)
	assert.Equal(t, "transaction submission failed: user rejected", err.Error())

	wrapped := fmt.Errorf("pay: %w", err)
	assert.Equal(t, ErrCodeTransactionFailure, CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(cause))
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Network: NetworkMainnet}.WithDefaults()

	assert.Equal(t, NetworkMainnet, cfg.Network)
	assert.Equal(t, DefaultValidity, cfg.Validity)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultButtonRootID, cfg.Client.ButtonRootID)
	assert.Equal(t, BalanceSourceStatic, cfg.Balance.Source)
}
