// Package pricing computes authoritative order totals. It is the only place
// totals are computed; callers feed it catalogue-sourced unit prices, never
// client input.
package pricing

import (
	"proshop/internal/config"
	"proshop/internal/model"

	"github.com/shopspring/decimal"
)

// LineItem is a quantity/unit-price pair to be priced.
type LineItem struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals holds the computed order amounts.
// Invariant: GrandTotal = ItemsTotal + TaxTotal + ShippingTotal exactly.
type Totals struct {
	ItemsTotal    decimal.Decimal
	TaxTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Engine computes order totals from line items and pricing rules.
type Engine struct {
	cfg config.PricingConfig
}

// NewEngine creates a pricing engine with the given rules.
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Price computes totals for the given line items.
//
// The items total is the sum of quantity*unitPrice, rounded once to 2 decimal
// places (not per line). Tax is the rounded items total times the tax rate,
// rounded to 2 decimal places. Shipping is zero when the items total exceeds
// the free-shipping threshold, the flat fee otherwise. The grand total is the
// exact sum of the already-rounded components.
func (e *Engine) Price(items []LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, model.ErrEmptyCart
	}

	itemsTotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, model.ErrInvalidQuantity
		}
		itemsTotal = itemsTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	itemsTotal = itemsTotal.Round(2)

	taxTotal := itemsTotal.Mul(e.cfg.TaxRate).Round(2)

	// Shipping is free once the items total reaches the threshold.
	shippingTotal := e.cfg.FlatShippingFee
	if itemsTotal.GreaterThanOrEqual(e.cfg.FreeShippingThreshold) {
		shippingTotal = decimal.Zero
	}

	return Totals{
		ItemsTotal:    itemsTotal,
		TaxTotal:      taxTotal,
		ShippingTotal: shippingTotal,
		GrandTotal:    itemsTotal.Add(taxTotal).Add(shippingTotal),
	}, nil
}
