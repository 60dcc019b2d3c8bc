package verification

import (
	"testing"
	"time"

	"github.com/konnektoren/tonpay/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

const testAddress = "EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go"

var now = time.Unix(1_700_000_000, 0)

func newService() *VerificationService {
	return NewVerificationService(func() time.Time { return now })
}

func validRequest() *types.PaymentRequest {
	return &types.PaymentRequest{
		ID:                 "req-1",
		DestinationAddress: testAddress,
		Amount:             tlb.FromNanoTONU(100000000),
		ValidUntil:         now.Add(20 * time.Minute).Unix(),
		Network:            types.NetworkTestnet,
	}
}

func TestVerify_Valid(t *testing.T) {
	require.NoError(t, newService().Verify(validRequest()))
}

func TestVerify_Invalid(t *testing.T) {
	testnetOnly := address.MustParseAddr(testAddress)
	testnetOnly.SetTestnetOnly(true)

	tests := []struct {
		name   string
		mutate func(r *types.PaymentRequest)
		code   string
	}{
		{"missing destination", func(r *types.PaymentRequest) { r.DestinationAddress = "" }, types.ErrCodeInvalidRequest},
		{"unparseable destination", func(r *types.PaymentRequest) { r.DestinationAddress = "EQdest" }, types.ErrCodeInvalidRequest},
		{"zero amount", func(r *types.PaymentRequest) { r.Amount = tlb.ZeroCoins }, types.ErrCodeInvalidRequest},
		{"unknown network", func(r *types.PaymentRequest) { r.Network = "devnet" }, types.ErrCodeInvalidRequest},
		{"testnet address on mainnet", func(r *types.PaymentRequest) {
			r.Network = types.NetworkMainnet
			r.DestinationAddress = testnetOnly.String()
		}, types.ErrCodeInvalidRequest},
		{"bad sender", func(r *types.PaymentRequest) { r.From = "me" }, types.ErrCodeInvalidRequest},
		{"expired", func(r *types.PaymentRequest) { r.ValidUntil = now.Unix() - 1 }, types.ErrCodeExpiredRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := newService().Verify(req)
			require.Error(t, err)
			assert.Equal(t, tt.code, types.CodeOf(err))
		})
	}

	require.ErrorIs(t, newService().Verify(nil), types.ErrInvalidRequest)
}

func TestVerify_NoDeadline(t *testing.T) {
	req := validRequest()
	req.ValidUntil = 0
	require.NoError(t, newService().Verify(req))
}

func TestVerifyTransaction(t *testing.T) {
	s := newService()

	tx, err := validRequest().TransactionRequest()
	require.NoError(t, err)
	require.NoError(t, s.VerifyTransaction(tx))

	tooMany := *tx
	for i := 0; i < types.MaxMessagesPerTransaction; i++ {
		tooMany.Messages = append(tooMany.Messages, tx.Messages[0])
	}
	require.ErrorIs(t, s.VerifyTransaction(&tooMany), types.ErrInvalidRequest)

	empty := *tx
	empty.Messages = nil
	require.ErrorIs(t, s.VerifyTransaction(&empty), types.ErrInvalidRequest)

	badAmount := *tx
	badAmount.Messages = []types.Message{{Address: testAddress, Amount: "1.5"}}
	require.ErrorIs(t, s.VerifyTransaction(&badAmount), types.ErrInvalidRequest)

	expired := *tx
	expired.ValidUntil = now.Unix()
	require.ErrorIs(t, s.VerifyTransaction(&expired), types.ErrExpiredRequest)
}
