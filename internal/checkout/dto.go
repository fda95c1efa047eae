package checkout

import (
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/shopspring/decimal"
)

// Item is one cart line with the categories of its product.
type Item struct {
	ProductID  string
	Quantity   int
	Categories []int64
}

// Cart is the part of the customer's cart shipping depends on.
type Cart struct {
	Items            []Item
	Total            decimal.Decimal
	PreDiscountTotal decimal.Decimal
}

// Categories returns one category set per line item.
func (c Cart) Categories() shipping.CartCategories {
	out := make(shipping.CartCategories, 0, len(c.Items))
	for _, item := range c.Items {
		set := make(shipping.CategorySet, 0, len(item.Categories))
		for _, id := range item.Categories {
			set = append(set, shipping.CategoryID(id))
		}
		out = append(out, set)
	}
	return out
}

// TotalFor picks the total free-shipping thresholds compare against.
func (c Cart) TotalFor(preDiscount bool) decimal.Decimal {
	if preDiscount && !c.PreDiscountTotal.IsZero() {
		return c.PreDiscountTotal
	}
	return c.Total
}

type FilterInput struct {
	Cart  Cart
	Rates []shipping.Rate
}

type FilterOutput struct {
	Rates  []shipping.Rate
	Hidden []shipping.HiddenRate
	// Images maps kept rate keys to logo URLs.
	Images map[string]string
	// Message is set when every quoted rate was withheld.
	Message string
}

// DateOption is a reservation date offered to the customer.
type DateOption struct {
	Date  string
	Label string
}

// DeliveryOptions is what the checkout date block renders for a method.
type DeliveryOptions struct {
	MethodID        shipping.MethodID
	RuleType        enums.RuleType
	Restricted      bool
	DisplayLocation enums.DisplayLocation
	Estimate        *shipping.Estimate
	Line            string
	Prompt          string
	Dates           []DateOption
	Message         string
}

// Selection is the customer's shipping choice at order submission.
type Selection struct {
	MethodKey       string
	MethodLabel     string
	ReservationDate string
	Cart            Cart
}

// Resolution carries the dates promised for a validated selection. Restricted
// is false for methods without a rule, in which case there are no dates.
type Resolution struct {
	MethodID   shipping.MethodID
	RuleType   enums.RuleType
	Restricted bool
	Estimate   shipping.Estimate
}

// FreeShippingStatus feeds the free-shipping progress widget.
type FreeShippingStatus struct {
	Enabled   bool
	MethodID  shipping.MethodID
	Threshold decimal.Decimal
	Remaining decimal.Decimal
	Reached   bool
	Percent   int
}
