package types

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// SettingsDocument stores the store-wide shipping presentation settings.
type SettingsDocument struct {
	Translations    map[string]string    `json:"translations,omitempty"`
	DisplayLocation string               `json:"display_location,omitempty"`
	HiddenMethods   []string             `json:"hidden_methods,omitempty"`
	MethodNames     map[string]string    `json:"method_names,omitempty"`
	Disclaimer      DisclaimerDocument   `json:"disclaimer"`
	FreeShipping    FreeShippingDocument `json:"free_shipping"`
	// PickupLocations become zero-cost methods of their own.
	PickupLocations []PickupLocationDocument `json:"pickup_locations,omitempty"`
	// MethodImages holds logo URLs keyed by method id.
	MethodImages map[string]string `json:"method_images,omitempty"`
}

type PickupLocationDocument struct {
	Name     string `json:"name"`
	MethodID string `json:"method_id"`
	ImageURL string `json:"image_url,omitempty"`
}

type DisclaimerDocument struct {
	Enabled  bool   `json:"enabled"`
	Text     string `json:"text,omitempty"`
	LinkText string `json:"link_text,omitempty"`
	URL      string `json:"url,omitempty"`
}

type FreeShippingDocument struct {
	Enabled             bool                       `json:"enabled"`
	UsePreDiscountTotal bool                       `json:"use_pre_discount_total"`
	Thresholds          map[string]decimal.Decimal `json:"thresholds,omitempty"`
}

func (s SettingsDocument) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *SettingsDocument) Scan(value any) error {
	return scanJSON(value, s)
}

// HolidayDocument is the wire form of a holiday entry.
type HolidayDocument struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}
