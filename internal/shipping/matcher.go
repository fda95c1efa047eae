package shipping

import "github.com/angelmondragon/advanced-shipping/pkg/types"

// AllowedCategories returns the rule's categories together with every
// priority day's categories.
func AllowedCategories(rule ASAPRule) CategorySet {
	allowed := rule.Categories.Union()
	for _, day := range rule.PriorityDays {
		allowed = allowed.Union(day.Categories)
	}
	return allowed
}

// AllProductsMatch reports whether every product shares at least one category
// with allowed. An empty allowed set never matches and neither does a product
// without categories. A cart with no products matches vacuously.
func AllProductsMatch(allowed CategorySet, cart CartCategories) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, product := range cart {
		if !product.Intersects(allowed) {
			return false
		}
	}
	return true
}

// IsDateVisible reports whether a reservation date can still be offered on today.
func IsDateVisible(date ReservationDate, today types.Date) bool {
	if !date.Valid() || !today.Before(date.Date) {
		return false
	}
	return date.ShowUntil.IsZero() || today.Before(date.ShowUntil)
}

// VisibleReservationDates returns the dates of rule that are visible on today
// and whose categories match every product, in configured order.
func VisibleReservationDates(rule ByDateRule, cart CartCategories, today types.Date) []ReservationDate {
	var offered []ReservationDate
	for _, date := range rule.Dates {
		if !IsDateVisible(date, today) {
			continue
		}
		if !AllProductsMatch(date.Categories, cart) {
			continue
		}
		offered = append(offered, date)
	}
	return offered
}

// IsMethodEligible reports whether a method with the given rule may be offered
// for cart. A nil rule leaves the method unrestricted.
func IsMethodEligible(rule Rule, cart CartCategories, today types.Date) bool {
	switch r := rule.(type) {
	case nil:
		return true
	case ASAPRule:
		return AllProductsMatch(AllowedCategories(r), cart)
	case ByDateRule:
		return len(VisibleReservationDates(r, cart, today)) > 0
	default:
		return false
	}
}

// EligibleFor resolves the rule for id and checks eligibility.
func (s RuleSet) EligibleFor(id MethodID, cart CartCategories, today types.Date) bool {
	rule, ok := s.Lookup(id)
	if !ok {
		return true
	}
	return IsMethodEligible(rule, cart, today)
}

// ProductMatchesRule applies per-product semantics: the single product must
// intersect the rule. Used for product pages, where no cart exists yet.
func ProductMatchesRule(rule Rule, product CategorySet, today types.Date) bool {
	switch r := rule.(type) {
	case ASAPRule:
		return product.Intersects(AllowedCategories(r))
	case ByDateRule:
		for _, date := range r.Dates {
			if IsDateVisible(date, today) && product.Intersects(date.Categories) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
