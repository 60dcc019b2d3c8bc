package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/konnektoren/tonpay/types"
	"github.com/konnektoren/tonpay/utils"
	"github.com/xssnick/tonutils-go/tlb"
)

// PaymentMethodTON identifies payments made through the TON wallet
const PaymentMethodTON = "ton"

// Payer submits TON payments, tonpay.Adapter implements it
type Payer interface {
	SubmitPaymentRequest(ctx context.Context, request *types.PaymentRequest) (*types.PaymentResult, error)
}

// BalanceChecker reports the balance of the paying wallet. When the Payer
// implements it, PayWithTON refuses carts the wallet cannot cover.
type BalanceChecker interface {
	Balance(ctx context.Context) (tlb.Coins, error)
}

// PayWithTON pays the cart total to merchant and moves a billing state to
// payment. The order id travels as the transfer comment.
func PayWithTON(ctx context.Context, payer Payer, state State, merchant string) (State, error) {
	if state.Stage != StageBilling {
		return state, ErrIllegalState
	}
	if state.Cart.IsEmpty() {
		return state, ErrEmptyCart
	}

	total := state.Cart.TotalPrice()
	amount, err := utils.CoinsFromDecimal(total)
	if err != nil {
		return state, fmt.Errorf("invalid cart total %s: %w", total, err)
	}

	if checker, ok := payer.(BalanceChecker); ok {
		funds, err := checker.Balance(ctx)
		if err != nil {
			return state, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
		if funds.Nano().Cmp(amount.Nano()) < 0 {
			return state, fmt.Errorf("%w: balance %s TON, total %s TON", ErrInsufficientFunds, funds.String(), amount.String())
		}
	}

	orderID := uuid.NewString()
	result, err := payer.SubmitPaymentRequest(ctx, &types.PaymentRequest{
		ID:                 orderID,
		DestinationAddress: merchant,
		Amount:             amount,
		Comment:            orderID,
	})
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	return state.ShowPayment(Payment{
		Method: PaymentMethodTON,
		Amount: total,
		Result: result,
	})
}
