package shipping

import (
	"strings"
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// Translations holds the customer-facing strings. Empty fields fall back to
// the defaults.
type Translations struct {
	ASAPPrefix          string `json:"asap_prefix"`
	ReservationPrompt   string `json:"reservation_prompt"`
	ProductInfoLabel    string `json:"product_info_label"`
	DateRequiredError   string `json:"error_date_required"`
	DateInvalidError    string `json:"error_date_invalid"`
	NoDatesAvailable    string `json:"no_dates_available"`
	CartNoShipping      string `json:"cart_no_shipping"`
	CheckoutNoShipping  string `json:"checkout_no_shipping"`
	DeliveryNoLaterThan string `json:"delivery_no_later_than"`
	MethodUnavailable   string `json:"method_unavailable"`
	DayMonday           string `json:"day_monday"`
	DayTuesday          string `json:"day_tuesday"`
	DayWednesday        string `json:"day_wednesday"`
	DayThursday         string `json:"day_thursday"`
	DayFriday           string `json:"day_friday"`
	DaySaturday         string `json:"day_saturday"`
	DaySunday           string `json:"day_sunday"`
}

// DefaultTranslations returns the built-in English strings.
func DefaultTranslations() Translations {
	return Translations{
		ASAPPrefix:          "Delivery no later than",
		ReservationPrompt:   "Select a reservation date:",
		ProductInfoLabel:    "Available to reserve:",
		DateRequiredError:   "Please select a reservation date.",
		DateInvalidError:    "Invalid reservation date selected.",
		NoDatesAvailable:    "No available dates for selected items.",
		CartNoShipping:      "No shipping method is available for the products in your cart.",
		CheckoutNoShipping:  "No shipping method is available for your order. Please review your cart.",
		DeliveryNoLaterThan: "Delivery no later than",
		MethodUnavailable:   "%shipping_method% is not available for your current cart contents.",
		DayMonday:           "Monday",
		DayTuesday:          "Tuesday",
		DayWednesday:        "Wednesday",
		DayThursday:         "Thursday",
		DayFriday:           "Friday",
		DaySaturday:         "Saturday",
		DaySunday:           "Sunday",
	}
}

func (t *Translations) fields() map[string]*string {
	return map[string]*string{
		"asap_prefix":            &t.ASAPPrefix,
		"reservation_prompt":     &t.ReservationPrompt,
		"product_info_label":     &t.ProductInfoLabel,
		"error_date_required":    &t.DateRequiredError,
		"error_date_invalid":     &t.DateInvalidError,
		"no_dates_available":     &t.NoDatesAvailable,
		"cart_no_shipping":       &t.CartNoShipping,
		"checkout_no_shipping":   &t.CheckoutNoShipping,
		"delivery_no_later_than": &t.DeliveryNoLaterThan,
		"method_unavailable":     &t.MethodUnavailable,
		"day_monday":             &t.DayMonday,
		"day_tuesday":            &t.DayTuesday,
		"day_wednesday":          &t.DayWednesday,
		"day_thursday":           &t.DayThursday,
		"day_friday":             &t.DayFriday,
		"day_saturday":           &t.DaySaturday,
		"day_sunday":             &t.DaySunday,
	}
}

// TranslationsFromMap reads the stored key/value translations. Unknown keys are ignored.
func TranslationsFromMap(values map[string]string) Translations {
	var t Translations
	fields := t.fields()
	for key, value := range values {
		if dst, ok := fields[key]; ok {
			*dst = value
		}
	}
	return t
}

// Merge overlays the non-empty values of t on the defaults.
func (t Translations) Merge() Translations {
	out := DefaultTranslations()
	dst := out.fields()
	for key, src := range t.fields() {
		if v := strings.TrimSpace(*src); v != "" {
			*dst[key] = v
		}
	}
	return out
}

// DayName returns the translated weekday name.
func (t Translations) DayName(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return t.DayMonday
	case time.Tuesday:
		return t.DayTuesday
	case time.Wednesday:
		return t.DayWednesday
	case time.Thursday:
		return t.DayThursday
	case time.Friday:
		return t.DayFriday
	case time.Saturday:
		return t.DaySaturday
	default:
		return t.DaySunday
	}
}

// FormatDayDate renders "<day name>, YYYY-MM-DD".
func FormatDayDate(d types.Date, tr Translations) string {
	if d.IsZero() {
		return ""
	}
	name := tr.DayName(d.Weekday())
	if name == "" {
		return d.String()
	}
	return name + ", " + d.String()
}

// FormatASAPLine renders the ASAP estimate line shown at checkout.
func FormatASAPLine(est Estimate, tr Translations) string {
	return strings.TrimSpace(tr.ASAPPrefix + " " + FormatDayDate(est.DeliverBy, tr))
}

// FormatMethodUnavailable fills the method label into the unavailable message.
func FormatMethodUnavailable(label string, tr Translations) string {
	return strings.ReplaceAll(tr.MethodUnavailable, "%shipping_method%", label)
}
