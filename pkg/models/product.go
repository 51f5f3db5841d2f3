package models

import "math"

// TaxRate is the flat sales tax applied to a cart subtotal at checkout.
const TaxRate = 0.08

// Product is a catalog entry. Products are immutable once loaded; the catalog
// is always replaced wholesale.
type Product struct {
	ID          string  `json:"id" yaml:"id" toml:"id" jsonschema:"required,description=Stable unique product identifier"`
	Name        string  `json:"name" yaml:"name" toml:"name" jsonschema:"required"`
	Price       float64 `json:"price" yaml:"price" toml:"price" jsonschema:"required,description=Unit price; expected to be non-negative"`
	Description string  `json:"description" yaml:"description" toml:"description" jsonschema:"required"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty" jsonschema:"description=Optional image reference"`
}

// CartLine is a copy of a Product placed in the cart. There is no quantity:
// adding the same product twice yields two lines.
type CartLine = Product

// CartSummary holds the totals shown alongside a cart.
type CartSummary struct {
	Count      int     `json:"count"`
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// Summarize computes count and totals for a cart. Amounts are rounded to cents.
func Summarize(cart []CartLine) CartSummary {
	var subtotal float64
	for _, line := range cart {
		subtotal += line.Price
	}
	tax := subtotal * TaxRate
	return CartSummary{
		Count:      len(cart),
		Subtotal:   roundCents(subtotal),
		Tax:        roundCents(tax),
		GrandTotal: roundCents(subtotal + tax),
	}
}

// HasNegativePrice reports whether any product carries a negative price.
// Mutations accept such input as-is; this is for callers that want to warn.
func HasNegativePrice(products []Product) bool {
	for _, p := range products {
		if p.Price < 0 {
			return true
		}
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
