package enums

import "fmt"

// DisplayLocation is the checkout section that renders the delivery date block.
type DisplayLocation string

const (
	DisplayLocationBilling     DisplayLocation = "billing"
	DisplayLocationShipping    DisplayLocation = "shipping"
	DisplayLocationOrderReview DisplayLocation = "order_review"
)

var validDisplayLocations = []DisplayLocation{
	DisplayLocationBilling,
	DisplayLocationShipping,
	DisplayLocationOrderReview,
}

// String implements fmt.Stringer.
func (d DisplayLocation) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DisplayLocation.
func (d DisplayLocation) IsValid() bool {
	for _, candidate := range validDisplayLocations {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDisplayLocation converts raw input into a DisplayLocation.
func ParseDisplayLocation(value string) (DisplayLocation, error) {
	for _, candidate := range validDisplayLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid display location %q", value)
}
