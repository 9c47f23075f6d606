// Package catalog is the static list of purchasable products.
package catalog

import (
	"fmt"

	"github.com/bitfsorg/libreferral-go/money"
)

// Product is an item that can be purchased. Products are reference data; the
// catalog only hands out copies.
type Product struct {
	ID             string       `json:"id" toml:"id"`
	Name           string       `json:"name" toml:"name"`
	Price          money.Amount `json:"price" toml:"price"`
	Commissionable bool         `json:"commissionable" toml:"commissionable"`
	IsSubscription bool         `json:"is_subscription,omitempty" toml:"subscription"`
}

// Validate checks a single product record.
func (p *Product) Validate() error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: %q costs %s", ErrNegativePrice, p.ID, p.Price)
	}
	return nil
}

// Catalog indexes products by ID while keeping their configured order.
type Catalog struct {
	products []*Product
	byID     map[string]*Product
}

// New validates and indexes products.
func New(products []*Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]*Product, 0, len(products)),
		byID:     make(map[string]*Product, len(products)),
	}
	for _, p := range products {
		if p == nil {
			return nil, fmt.Errorf("%w: nil product", ErrInvalidProduct)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProduct, p.ID)
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Get returns a copy of the product with the given ID.
func (c *Catalog) Get(id string) (*Product, bool) {
	p, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// List returns copies of all products in configured order.
func (c *Catalog) List() []*Product {
	out := make([]*Product, len(c.products))
	for i, p := range c.products {
		cp := *p
		out[i] = &cp
	}
	return out
}

// DefaultProducts returns the reference product set.
func DefaultProducts() []*Product {
	return []*Product{
		{ID: "p1", Name: "Startpakke", Price: money.Whole(1000), Commissionable: true},
		{ID: "p2", Name: "Helsekost", Price: money.Whole(500), Commissionable: true},
		{ID: "sub1", Name: "Månedlig Abonnement", Price: money.Whole(200), Commissionable: true, IsSubscription: true},
	}
}
