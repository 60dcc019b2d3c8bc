package checkout

import (
	"errors"

	"github.com/konnektoren/tonpay/types"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrIllegalState      = errors.New("illegal checkout state transition")
)

type Stage string

const (
	StageCart     Stage = "cart"
	StageBilling  Stage = "billing"
	StagePayment  Stage = "payment"
	StageComplete Stage = "complete"
)

// Payment records how the cart was paid
type Payment struct {
	Method string               `json:"method"`
	Amount decimal.Decimal      `json:"amount"`
	Result *types.PaymentResult `json:"result,omitempty"`
}

// State is one step of the checkout. Transitions return a new State and
// leave the receiver untouched.
type State struct {
	Stage   Stage    `json:"stage"`
	Cart    Cart     `json:"cart"`
	Payment *Payment `json:"payment,omitempty"`
}

func NewState(cart Cart) State {
	return State{Stage: StageCart, Cart: cart.clone()}
}

// Cancel returns to the cart from billing or payment
func (s State) Cancel() (State, error) {
	switch s.Stage {
	case StageBilling, StagePayment:
		return State{Stage: StageCart, Cart: s.Cart.clone()}, nil
	default:
		return s, ErrIllegalState
	}
}

func (s State) ShowBilling() (State, error) {
	if s.Stage != StageCart {
		return s, ErrIllegalState
	}
	return State{Stage: StageBilling, Cart: s.Cart.clone()}, nil
}

func (s State) ShowPayment(payment Payment) (State, error) {
	if s.Stage != StageBilling {
		return s, ErrIllegalState
	}
	return State{Stage: StagePayment, Cart: s.Cart.clone(), Payment: &payment}, nil
}

func (s State) Complete() (State, error) {
	if s.Stage != StagePayment {
		return s, ErrIllegalState
	}
	return State{Stage: StageComplete, Cart: s.Cart.clone()}, nil
}
