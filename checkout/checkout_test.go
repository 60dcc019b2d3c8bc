package checkout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/konnektoren/tonpay/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/tlb"
)

const merchant = "EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go"

func pricedCart() Cart {
	cart := NewCart()
	cart.AddProduct(Product{ID: "1", Name: "Articles"}.WithPrice(decimal.RequireFromString("0.1")))
	cart.AddProduct(Product{ID: "2", Name: "Verbs"}.WithPrice(decimal.RequireFromString("0.25")))
	cart.AddProduct(Product{ID: "3", Name: "Free"})
	return cart
}

func TestCart(t *testing.T) {
	cart := pricedCart()
	cart.AddProduct(Product{ID: "1", Name: "Duplicate"})

	require.Len(t, cart.Products, 3)
	assert.Equal(t, "Articles", cart.Products[0].Name)
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("0.35")))

	cart.RemoveProduct("2")
	assert.Len(t, cart.Products, 2)
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("0.1")))

	p := NewProduct("Test", "Test")
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.PriceOrZero().IsZero())
}

func TestCart_CopiesAreIndependent(t *testing.T) {
	original := pricedCart()
	copied := original

	copied.RemoveProduct("1")
	require.Len(t, copied.Products, 2)
	require.Len(t, original.Products, 3)
	assert.Equal(t, "Articles", original.Products[0].Name)
	assert.Equal(t, "Verbs", original.Products[1].Name)

	original = NewCart()
	original.AddProduct(Product{ID: "1"})
	original.AddProduct(Product{ID: "2"})
	left, right := original, original
	left.AddProduct(Product{ID: "left"})
	right.AddProduct(Product{ID: "right"})
	assert.Equal(t, "left", left.Products[2].ID)
	assert.Equal(t, "right", right.Products[2].ID)
	assert.Len(t, original.Products, 2)
}

func TestProductCatalog(t *testing.T) {
	catalog := NewProductCatalog("Test")
	assert.Equal(t, "Test", catalog.ID)
	assert.Empty(t, catalog.Products)

	p := NewProduct("Test", "Test")
	catalog.AddProduct(p)
	require.Len(t, catalog.Products, 1)

	got, ok := catalog.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.Name, got.Name)

	_, ok = catalog.Product("missing")
	assert.False(t, ok)
}

func TestParseProductCatalog(t *testing.T) {
	data := []byte(`
id: "German"
products:
  - id: "articles"
    name: "Articles"
    description: "Der, die, das"
    price: 0.5
    tags: ["grammar"]
  - name: "Free lesson"
    description: "Hallo"
    tags: []
`)

	catalog, err := ParseProductCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, "German", catalog.ID)
	require.Len(t, catalog.Products, 2)

	articles := catalog.Products[0]
	assert.Equal(t, "articles", articles.ID)
	require.NotNil(t, articles.Price)
	assert.True(t, articles.Price.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, []string{"grammar"}, articles.Tags)

	free := catalog.Products[1]
	assert.NotEmpty(t, free.ID)
	assert.Nil(t, free.Price)
	assert.True(t, free.PriceOrZero().IsZero())

	_, err = ParseProductCatalog([]byte("products: ["))
	assert.Error(t, err)

	_, err = ParseProductCatalog([]byte("products:\n  - name: Refund\n    price: -1\n"))
	assert.Error(t, err)
}

func TestLoadProductCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte("id: shop\nproducts:\n  - id: a\n    name: A\n    price: 0.25\n"), 0o600))

	catalog, err := LoadProductCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Products, 1)

	cart := NewCart()
	for _, p := range catalog.Products {
		cart.AddProduct(p)
	}
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("0.25")))

	_, err = LoadProductCatalog(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestState_Transitions(t *testing.T) {
	s := NewState(pricedCart())
	assert.Equal(t, StageCart, s.Stage)

	_, err := s.Complete()
	require.ErrorIs(t, err, ErrIllegalState)
	_, err = s.Cancel()
	require.ErrorIs(t, err, ErrIllegalState)

	billing, err := s.ShowBilling()
	require.NoError(t, err)
	assert.Equal(t, StageBilling, billing.Stage)

	back, err := billing.Cancel()
	require.NoError(t, err)
	assert.Equal(t, StageCart, back.Stage)

	payment, err := billing.ShowPayment(Payment{Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, StagePayment, payment.Stage)
	assert.Equal(t, "cash", payment.Payment.Method)

	done, err := payment.Complete()
	require.NoError(t, err)
	assert.Equal(t, StageComplete, done.Stage)
	assert.Len(t, done.Cart.Products, 3)

	_, err = done.Cancel()
	require.ErrorIs(t, err, ErrIllegalState)
}

type fakePayer struct {
	requests []*types.PaymentRequest
	err      error
}

func (f *fakePayer) SubmitPaymentRequest(_ context.Context, r *types.PaymentRequest) (*types.PaymentResult, error) {
	f.requests = append(f.requests, r)
	if f.err != nil {
		return nil, f.err
	}
	return &types.PaymentResult{BOC: "boc"}, nil
}

type fundedPayer struct {
	fakePayer
	funds      tlb.Coins
	balanceErr error
}

func (f *fundedPayer) Balance(context.Context) (tlb.Coins, error) {
	return f.funds, f.balanceErr
}

func TestPayWithTON(t *testing.T) {
	billing, err := NewState(pricedCart()).ShowBilling()
	require.NoError(t, err)

	payer := &fakePayer{}
	next, err := PayWithTON(context.Background(), payer, billing, merchant)
	require.NoError(t, err)

	assert.Equal(t, StagePayment, next.Stage)
	assert.Equal(t, PaymentMethodTON, next.Payment.Method)
	assert.Equal(t, "boc", next.Payment.Result.BOC)

	require.Len(t, payer.requests, 1)
	req := payer.requests[0]
	assert.Equal(t, merchant, req.DestinationAddress)
	assert.Equal(t, "350000000", req.Amount.Nano().String())
	assert.Equal(t, req.ID, req.Comment)
}

func TestPayWithTON_Failures(t *testing.T) {
	_, err := PayWithTON(context.Background(), &fakePayer{}, NewState(pricedCart()), merchant)
	require.ErrorIs(t, err, ErrIllegalState)

	empty, err := NewState(NewCart()).ShowBilling()
	require.NoError(t, err)
	_, err = PayWithTON(context.Background(), &fakePayer{}, empty, merchant)
	require.ErrorIs(t, err, ErrEmptyCart)

	billing, err := NewState(pricedCart()).ShowBilling()
	require.NoError(t, err)
	cause := types.NewError(types.ErrCodeNoAccount, "no account connected", nil)
	state, err := PayWithTON(context.Background(), &fakePayer{err: cause}, billing, merchant)
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.ErrorIs(t, err, types.ErrNoAccount)
	assert.Equal(t, StageBilling, state.Stage)
}

func TestPayWithTON_BalanceCheck(t *testing.T) {
	billing, err := NewState(pricedCart()).ShowBilling()
	require.NoError(t, err)

	poor := &fundedPayer{funds: tlb.MustFromTON("0.1")}
	state, err := PayWithTON(context.Background(), poor, billing, merchant)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, StageBilling, state.Stage)
	assert.Empty(t, poor.requests)

	cause := errors.New("liteserver unreachable")
	unknown := &fundedPayer{balanceErr: cause}
	_, err = PayWithTON(context.Background(), unknown, billing, merchant)
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, unknown.requests)

	exact := &fundedPayer{funds: tlb.MustFromTON("0.35")}
	next, err := PayWithTON(context.Background(), exact, billing, merchant)
	require.NoError(t, err)
	assert.Equal(t, StagePayment, next.Stage)
	assert.Len(t, exact.requests, 1)
}

func TestCoupon_Redeem(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewCoupon("SPRING25", []string{"challenge1"}, 1, now.Add(7*24*time.Hour))

	assert.True(t, c.IsValid("challenge1", "trace123", now))
	assert.False(t, c.IsValid("challenge2", "trace123", now))

	require.NoError(t, c.Redeem("challenge1", "trace123", now))
	assert.Equal(t, uint32(0), c.UsesRemaining)

	err := c.Redeem("challenge1", "trace123", now)
	require.ErrorIs(t, err, ErrCouponNoUsesRemaining)

	expired := NewCoupon("OLD", []string{"challenge1"}, 1, now.Add(-24*time.Hour))
	err = expired.Redeem("challenge1", "trace123", now)
	require.True(t, errors.Is(err, ErrCouponExpired))

	multi := NewCoupon("MULTI", []string{"challenge1"}, 2, now.Add(time.Hour))
	require.NoError(t, multi.Redeem("challenge1", "trace123", now))
	require.ErrorIs(t, multi.Redeem("challenge1", "trace123", now), ErrCouponAlreadyUsed)
}
