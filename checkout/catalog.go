package checkout

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ProductCatalog is a named list of products offered for sale
type ProductCatalog struct {
	ID       string    `json:"id" yaml:"id"`
	Products []Product `json:"products" yaml:"products"`
}

func NewProductCatalog(id string) *ProductCatalog {
	return &ProductCatalog{ID: id}
}

func (c *ProductCatalog) AddProduct(p Product) {
	c.Products = append(c.Products, p)
}

// Product returns the product with id
func (c *ProductCatalog) Product(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ParseProductCatalog decodes a YAML catalog. Products without an id get a
// random one so carts can tell them apart.
func ParseProductCatalog(data []byte) (*ProductCatalog, error) {
	var c ProductCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse product catalog: %w", err)
	}

	for i := range c.Products {
		if c.Products[i].ID == "" {
			c.Products[i].ID = uuid.NewString()
		}
		if c.Products[i].Price != nil && c.Products[i].Price.IsNegative() {
			return nil, fmt.Errorf("product %q has a negative price", c.Products[i].Name)
		}
	}
	return &c, nil
}

// LoadProductCatalog reads a YAML catalog from path
func LoadProductCatalog(path string) (*ProductCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product catalog %s: %w", path, err)
	}
	return ParseProductCatalog(data)
}
