package pricing

import "github.com/shopspring/decimal"

// EventSurcharge is the multiplier applied while event pricing is active.
var EventSurcharge = decimal.RequireFromString("1.10")

// EffectivePrice returns the price a customer pays for base under the given
// event pricing state. The result keeps full precision; round only for display.
func EffectivePrice(base decimal.Decimal, eventActive bool) decimal.Decimal {
	if eventActive {
		return base.Mul(EventSurcharge)
	}
	return base
}

// Display formats an amount as a 2-decimal currency string.
func Display(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
