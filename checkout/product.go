// Package checkout implements the marketplace cart and the checkout flow
// that ends in a TON payment.
package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is an item offered in the marketplace. Price is in TON.
type Product struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Price       *decimal.Decimal `json:"price,omitempty" yaml:"price,omitempty"`
	Image       string           `json:"image,omitempty" yaml:"image,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	DataPath    string           `json:"dataPath,omitempty" yaml:"data_path,omitempty"`
}

// NewProduct creates a free product with a random id
func NewProduct(name, description string) Product {
	return Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
}

// WithPrice returns a copy of p priced at price TON
func (p Product) WithPrice(price decimal.Decimal) Product {
	p.Price = &price
	return p
}

// PriceOrZero returns the price, unpriced products are free
func (p Product) PriceOrZero() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return *p.Price
}
