package settlement

import (
	"context"
	"time"

	"github.com/konnektoren/tonpay/clients"
	"github.com/konnektoren/tonpay/logger"
	"github.com/konnektoren/tonpay/metrics"
	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/verification"
)

// Settler submits a payment through a wallet client
type Settler interface {
	Settle(ctx context.Context, client clients.WalletClient, request *types.PaymentRequest) (*types.PaymentResult, error)
}

// SettlementService hands payment requests to the wallet exactly once.
// Failures are reported to the caller and never retried.
type SettlementService struct {
	logger   logger.Logger
	metrics  metrics.Recorder
	verifier verification.Verifier
}

var _ Settler = (*SettlementService)(nil)

// NewSettlementService creates a new settlement service. A nil logger or
// recorder falls back to a no-op, a nil verifier to one on the wall clock.
func NewSettlementService(l logger.Logger, m metrics.Recorder, v verification.Verifier) *SettlementService {
	if l == nil {
		l = logger.NoopLogger{}
	}
	if m == nil {
		m = metrics.NoopRecorder{}
	}
	if v == nil {
		v = verification.NewVerificationService(nil)
	}
	return &SettlementService{
		logger:   logger.With(l, map[string]any{"component": "settlement"}),
		metrics:  m,
		verifier: v,
	}
}

// Settle converts request to the wire schema, checks it and sends it. A
// request that fails the check never reaches the client. The client's
// result is returned unchanged.
func (s *SettlementService) Settle(
	ctx context.Context,
	client clients.WalletClient,
	request *types.PaymentRequest,
) (*types.PaymentResult, error) {
	tx, err := request.TransactionRequest()
	if err != nil {
		return nil, types.NewError(types.ErrCodeInvalidRequest, "failed to build transaction request", err)
	}

	labels := metrics.NetworkLabels(request.Network.String())

	if err := s.verifier.VerifyTransaction(tx); err != nil {
		s.metrics.IncCounter(metrics.EventPaymentRejected, labels)
		s.logger.Warn("transaction request rejected", map[string]any{
			"request_id": request.ID,
			"error":      err,
		})
		return nil, err
	}

	fields := map[string]any{
		"request_id":  request.ID,
		"destination": request.DestinationAddress,
		"amount":      tx.Messages[0].Amount,
		"network":     tx.Network,
		"valid_until": tx.ValidUntil,
	}
	s.logger.Info("sending transaction", fields)

	start := time.Now()
	result, err := client.SendTransaction(ctx, tx)
	s.metrics.ObserveLatency(metrics.OpSendTransaction, time.Since(start), labels)

	if err != nil {
		s.metrics.IncCounter(metrics.EventTransactionFailed, labels)
		fields["error"] = err
		s.logger.Error("transaction failed", fields)
		return nil, types.NewError(types.ErrCodeTransactionFailure, "transaction submission failed", err)
	}

	s.metrics.IncCounter(metrics.EventTransactionSent, labels)
	s.logger.Info("transaction sent", map[string]any{"request_id": request.ID})
	return result, nil
}
