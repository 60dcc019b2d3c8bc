package verification

import (
	"fmt"
	"time"

	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
)

// Verifier checks payment requests before they reach the wallet
type Verifier interface {
	Verify(request *types.PaymentRequest) error
	VerifyTransaction(tx *types.TransactionRequest) error
}

// VerificationService validates payment and transaction requests offline.
// It never talks to the wallet or the chain.
type VerificationService struct {
	now func() time.Time
}

var _ Verifier = (*VerificationService)(nil)

// NewVerificationService creates a new verification service. now may be nil.
func NewVerificationService(now func() time.Time) *VerificationService {
	if now == nil {
		now = time.Now
	}
	return &VerificationService{now: now}
}

// Verify reports INVALID_REQUEST for malformed requests and EXPIRED_REQUEST
// when the deadline has passed.
func (s *VerificationService) Verify(request *types.PaymentRequest) error {
	if request == nil {
		return invalid("payment request is nil", nil)
	}

	if err := utils.ValidateStruct(request); err != nil {
		return invalid("validation failed", err)
	}

	if request.Amount.Nano().Sign() <= 0 {
		return invalid(fmt.Sprintf("amount must be positive, got %s", request.Amount.Nano()), nil)
	}

	if err := utils.ValidateAddressForNetwork(request.DestinationAddress, request.Network); err != nil {
		return invalid("invalid destination address", err)
	}

	if request.From != "" {
		if _, err := utils.ParseAddress(request.From); err != nil {
			return invalid("invalid sender address", err)
		}
	}

	if err := utils.ValidateDeadline(request.ValidUntil, s.now()); err != nil {
		return types.NewError(types.ErrCodeExpiredRequest, "payment request expired", err)
	}

	return nil
}

// VerifyTransaction validates the wire request handed to the wallet
func (s *VerificationService) VerifyTransaction(tx *types.TransactionRequest) error {
	if tx == nil {
		return invalid("transaction request is nil", nil)
	}

	if err := utils.ValidateStruct(tx); err != nil {
		return invalid("validation failed", err)
	}

	for i, msg := range tx.Messages {
		if _, err := utils.ParseAddress(msg.Address); err != nil {
			return invalid(fmt.Sprintf("message %d", i), err)
		}
		if _, err := utils.ParseNanoAmount(msg.Amount); err != nil {
			return invalid(fmt.Sprintf("message %d", i), err)
		}
	}

	if err := utils.ValidateDeadline(tx.ValidUntil, s.now()); err != nil {
		return types.NewError(types.ErrCodeExpiredRequest, "transaction request expired", err)
	}

	return nil
}

func invalid(msg string, cause error) error {
	return types.NewError(types.ErrCodeInvalidRequest, msg, cause)
}
