// Package checkout drives a single pass over a basket: the discount chain
// first, then full-price liquidation of whatever the rules left.
package checkout

import (
	"github.com/shopspring/decimal"

	"discount-service/internal/basket"
	"discount-service/internal/discount"
	"discount-service/internal/entity"
)

const NothingSold = "Nothing has been sold"

type Result struct {
	Applied    []entity.Application
	Discounted float64
	Remainder  float64
	Total      float64
}

// Sold is false only when the checkout priced to exactly zero.
func (r Result) Sold() bool {
	return r.Total != 0
}

func (r Result) Display() string {
	return Format(r.Total)
}

// Total runs chain over b and liquidates the rest. b is empty afterwards.
func Total(chain *discount.Chain, b *basket.Basket) Result {
	applied := chain.Run(b)
	discounted := discount.Sum(applied)
	remainder := b.LiquidateRemainder()
	return Result{
		Applied:    applied,
		Discounted: discounted,
		Remainder:  remainder,
		Total:      discounted + remainder,
	}
}

// Round returns total rounded half away from zero to two decimal places.
func Round(total float64) decimal.Decimal {
	return decimal.NewFromFloat(total).Round(2)
}

// Format renders total for display, e.g. "Sold for 180.90".
func Format(total float64) string {
	if total == 0 {
		return NothingSold
	}
	return "Sold for " + Round(total).StringFixed(2)
}
