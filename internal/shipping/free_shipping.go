package shipping

import "github.com/shopspring/decimal"

// FreeShippingThresholds maps methods to the cart total at which they become free.
type FreeShippingThresholds map[MethodID]decimal.Decimal

// Lookup resolves the threshold for id, preferring an exact instance match.
// Non-positive thresholds are treated as unset.
func (t FreeShippingThresholds) Lookup(id MethodID) (decimal.Decimal, bool) {
	if threshold, ok := t[id]; ok && threshold.IsPositive() {
		return threshold, true
	}
	if threshold, ok := t[id.Base()]; ok && threshold.IsPositive() {
		return threshold, true
	}
	return decimal.Zero, false
}

// ApplyFreeShipping returns a copy of rates with cost zeroed where the cart
// total reaches the method's threshold.
func ApplyFreeShipping(rates []Rate, thresholds FreeShippingThresholds, cartTotal decimal.Decimal) []Rate {
	out := make([]Rate, len(rates))
	copy(out, rates)
	if len(thresholds) == 0 {
		return out
	}
	for i, rate := range out {
		threshold, ok := thresholds.Lookup(rate.MethodID())
		if !ok {
			continue
		}
		if cartTotal.GreaterThanOrEqual(threshold) {
			out[i].Cost = decimal.Zero
		}
	}
	return out
}

// FreeShippingProgress describes how far a cart is from free shipping.
type FreeShippingProgress struct {
	Threshold decimal.Decimal
	Remaining decimal.Decimal
	Reached   bool
	// Percent is the share of the threshold already in the cart, 0 to 100.
	Percent int
}

// ProgressTowardFreeShipping returns false when threshold is not positive.
func ProgressTowardFreeShipping(threshold, cartTotal decimal.Decimal) (FreeShippingProgress, bool) {
	if !threshold.IsPositive() {
		return FreeShippingProgress{}, false
	}
	remaining := threshold.Sub(cartTotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percent := cartTotal.Div(threshold).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return FreeShippingProgress{
		Threshold: threshold,
		Remaining: remaining,
		Reached:   remaining.IsZero(),
		Percent:   int(percent),
	}, true
}
