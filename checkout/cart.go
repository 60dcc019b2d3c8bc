package checkout

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Products []Product `json:"products"`
}

func NewCart() Cart {
	return Cart{}
}

// AddProduct adds p unless a product with the same id is already in the cart.
// Copies of the cart keep their own products.
func (c *Cart) AddProduct(p Product) {
	for _, existing := range c.Products {
		if existing.ID == p.ID {
			return
		}
	}
	c.Products = append(slices.Clip(c.Products), p)
}

func (c *Cart) RemoveProduct(id string) {
	kept := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.Products = kept
}

// TotalPrice sums the product prices in TON
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Products {
		total = total.Add(p.PriceOrZero())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Products) == 0
}

func (c Cart) clone() Cart {
	out := Cart{Products: make([]Product, len(c.Products))}
	copy(out.Products, c.Products)
	return out
}
