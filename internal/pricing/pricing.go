// Package pricing computes order totals. It is pure: the same subtotal
// always yields the same totals, and both the cart summary preview and
// order creation go through ComputeTotals so displayed and charged
// amounts cannot diverge.
package pricing

import "github.com/shopspring/decimal"

const (
	// DeliveryFeeCents is the flat fee charged below the free-delivery threshold.
	DeliveryFeeCents int64 = 500
	// FreeDeliveryThresholdCents waives the fee when the subtotal is strictly above it.
	FreeDeliveryThresholdCents int64 = 5000
)

// TaxRate is the flat sales tax applied to the subtotal.
var TaxRate = decimal.NewFromFloat(0.08)

type Totals struct {
	TaxCents         int64
	DeliveryFeeCents int64
	TotalCents       int64
}

// ComputeTotals derives tax, delivery fee and grand total from a subtotal.
// All amounts are integer cents; the tax product is rounded half away from
// zero to whole cents.
func ComputeTotals(subtotalCents int64) Totals {
	tax := decimal.NewFromInt(subtotalCents).Mul(TaxRate).Round(0).IntPart()

	fee := DeliveryFeeCents
	if subtotalCents > FreeDeliveryThresholdCents {
		fee = 0
	}

	return Totals{
		TaxCents:         tax,
		DeliveryFeeCents: fee,
		TotalCents:       subtotalCents + tax + fee,
	}
}
