package enums

// HideReason explains why a shipping rate was withheld from the customer.
type HideReason string

const (
	HideReasonCategoryMismatch HideReason = "category_mismatch"
)

// String implements fmt.Stringer.
func (h HideReason) String() string {
	return string(h)
}
