package shipping

import (
	"strings"

	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
	"github.com/shopspring/decimal"
)

// Rate is a shipping rate quoted for the current cart. Key has the form
// "method_id:instance_id".
type Rate struct {
	Key   string
	Label string
	Cost  decimal.Decimal
}

// MethodID returns the rate key as a method id.
func (r Rate) MethodID() MethodID {
	return MethodID(strings.TrimSpace(r.Key))
}

// MethodIDFromRateKey extracts the base method id from a rate key.
func MethodIDFromRateKey(key string) MethodID {
	return MethodID(key).Base()
}

// HiddenRate records a rate removed by the filter.
type HiddenRate struct {
	Rate   Rate
	Reason enums.HideReason
}

// FilterResult is the outcome of FilterRates.
type FilterResult struct {
	Rates  []Rate
	Hidden []HiddenRate
	// RemovedAll is set when rates were quoted and the filter withheld every one.
	RemovedAll bool
}

// FilterRates drops rates whose method is not eligible for cart.
func FilterRates(rules RuleSet, rates []Rate, cart CartCategories, today types.Date) FilterResult {
	result := FilterResult{Rates: make([]Rate, 0, len(rates))}
	for _, rate := range rates {
		if rules.EligibleFor(rate.MethodID(), cart, today) {
			result.Rates = append(result.Rates, rate)
			continue
		}
		result.Hidden = append(result.Hidden, HiddenRate{Rate: rate, Reason: enums.HideReasonCategoryMismatch})
	}
	result.RemovedAll = len(rates) > 0 && len(result.Rates) == 0
	return result
}

// Validation is the result of re-checking a rate the customer already selected.
type Validation struct {
	Eligible bool
	Reason   enums.HideReason
}

// ValidateRate re-checks a single selected rate against the current cart.
func ValidateRate(rules RuleSet, rate Rate, cart CartCategories, today types.Date) Validation {
	if rules.EligibleFor(rate.MethodID(), cart, today) {
		return Validation{Eligible: true}
	}
	return Validation{Reason: enums.HideReasonCategoryMismatch}
}
