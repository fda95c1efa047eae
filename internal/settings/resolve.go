package settings

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Settings is the resolved store-wide presentation configuration.
type Settings struct {
	Translations    shipping.Translations
	DisplayLocation enums.DisplayLocation
	HiddenMethods   []shipping.MethodID
	MethodNames     map[shipping.MethodID]string
	Disclaimer      Disclaimer
	FreeShipping    FreeShipping
	PickupLocations []shipping.PickupLocation
	// MethodImages includes the pickup location images.
	MethodImages shipping.MethodImages
}

type Disclaimer struct {
	Enabled  bool
	Text     string
	LinkText string
	URL      string
}

// Visible reports whether the disclaimer is enabled and fully configured.
func (d Disclaimer) Visible() bool {
	return d.Enabled && d.Text != "" && d.URL != ""
}

// PlainText renders the disclaimer for plain-text emails.
func (d Disclaimer) PlainText() string {
	if !d.Visible() {
		return ""
	}
	return d.Text + ": " + d.URL
}

type FreeShipping struct {
	Enabled             bool
	UsePreDiscountTotal bool
	Thresholds          shipping.FreeShippingThresholds
}

// MethodName returns the configured display name for id, falling back to the
// base method name and then the id itself.
func (s Settings) MethodName(id shipping.MethodID) string {
	if name := strings.TrimSpace(s.MethodNames[id]); name != "" {
		return name
	}
	if name := strings.TrimSpace(s.MethodNames[id.Base()]); name != "" {
		return name
	}
	return id.String()
}

// IsHidden reports whether id (or its base method) is hidden from rule editing.
func (s Settings) IsHidden(id shipping.MethodID) bool {
	for _, hidden := range s.HiddenMethods {
		if hidden == id || hidden == id.Base() {
			return true
		}
	}
	return false
}

// Snapshot is everything a request needs to evaluate shipping.
type Snapshot struct {
	Rules    shipping.RuleSet
	Holidays shipping.HolidayCalendar
	Settings Settings
}

// DefaultSettings is used before the store has saved anything.
func DefaultSettings() Settings {
	return Settings{
		Translations:    shipping.DefaultTranslations(),
		DisplayLocation: enums.DisplayLocationBilling,
		MethodNames:     map[shipping.MethodID]string{},
		MethodImages:    shipping.MethodImages{},
	}
}

// ResolveSettings converts the stored document. Invalid display locations fall
// back to billing.
func ResolveSettings(doc types.SettingsDocument) Settings {
	out := DefaultSettings()
	out.Translations = shipping.TranslationsFromMap(doc.Translations).Merge()
	if loc, err := enums.ParseDisplayLocation(strings.TrimSpace(doc.DisplayLocation)); err == nil {
		out.DisplayLocation = loc
	}
	for _, id := range doc.HiddenMethods {
		if id = strings.TrimSpace(id); id != "" {
			out.HiddenMethods = append(out.HiddenMethods, shipping.MethodID(id))
		}
	}
	for id, name := range doc.MethodNames {
		out.MethodNames[shipping.MethodID(strings.TrimSpace(id))] = strings.TrimSpace(name)
	}
	out.Disclaimer = Disclaimer{
		Enabled:  doc.Disclaimer.Enabled,
		Text:     strings.TrimSpace(doc.Disclaimer.Text),
		LinkText: strings.TrimSpace(doc.Disclaimer.LinkText),
		URL:      strings.TrimSpace(doc.Disclaimer.URL),
	}
	out.FreeShipping = FreeShipping{
		Enabled:             doc.FreeShipping.Enabled,
		UsePreDiscountTotal: doc.FreeShipping.UsePreDiscountTotal,
		Thresholds:          shipping.FreeShippingThresholds{},
	}
	for id, threshold := range doc.FreeShipping.Thresholds {
		if threshold.GreaterThan(decimal.Zero) {
			out.FreeShipping.Thresholds[shipping.MethodID(strings.TrimSpace(id))] = threshold
		}
	}
	for id, url := range doc.MethodImages {
		if id, url = strings.TrimSpace(id), strings.TrimSpace(url); id != "" && url != "" {
			out.MethodImages[shipping.MethodID(id)] = url
		}
	}
	for _, loc := range doc.PickupLocations {
		id := shipping.MethodID(strings.TrimSpace(loc.MethodID))
		name := strings.TrimSpace(loc.Name)
		if id == "" || name == "" {
			continue
		}
		pickup := shipping.PickupLocation{Name: name, MethodID: id, ImageURL: strings.TrimSpace(loc.ImageURL)}
		out.PickupLocations = append(out.PickupLocations, pickup)
		if pickup.ImageURL != "" {
			out.MethodImages[id] = pickup.ImageURL
		}
		if _, named := out.MethodNames[id]; !named {
			out.MethodNames[id] = name
		}
	}
	return out
}

// ResolveHolidays builds the calendar. Unparseable entries are skipped and
// reported.
func ResolveHolidays(docs []types.HolidayDocument) (shipping.HolidayCalendar, error) {
	var (
		holidays []shipping.Holiday
		warnings error
	)
	for _, doc := range docs {
		d, err := types.ParseDate(doc.Date)
		if err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("holiday: %w", err))
			continue
		}
		holidays = append(holidays, shipping.Holiday{Date: d, Label: strings.TrimSpace(doc.Label)})
	}
	return shipping.NewHolidayCalendar(holidays), warnings
}

// ResolveRules turns stored documents into typed rules. The returned error
// only carries warnings about dates that failed to parse; those dates resolve
// to the zero date and are never offered. Rules for hidden methods are left
// out.
func ResolveRules(docs map[string]types.RuleDocument, hidden []shipping.MethodID) (shipping.RuleSet, error) {
	rules := make(shipping.RuleSet, len(docs))
	hiddenSet := Settings{HiddenMethods: hidden}
	var warnings error
	for rawID, doc := range docs {
		id := shipping.MethodID(strings.TrimSpace(rawID))
		if id == "" || hiddenSet.IsHidden(id) {
			continue
		}
		rule, err := resolveRule(doc)
		if err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("method %s: %w", id, err))
		}
		rules[id] = rule
	}
	return rules, warnings
}

func resolveRule(doc types.RuleDocument) (shipping.Rule, error) {
	ruleType, err := enums.ParseRuleType(doc.Type)
	if err != nil {
		ruleType = enums.RuleTypeASAP
	}

	var warnings error
	parse := func(field, value string) types.Date {
		if strings.TrimSpace(value) == "" {
			return types.Date{}
		}
		d, err := types.ParseDate(value)
		if err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("%s: %w", field, err))
			return types.Date{}
		}
		return d
	}

	if ruleType == enums.RuleTypeByDate {
		rule := shipping.ByDateRule{}
		for _, entry := range doc.Dates {
			date := shipping.ReservationDate{
				Date:       parse("date", entry.Date),
				Label:      strings.TrimSpace(entry.Label),
				ShowUntil:  parse("show_until", entry.ShowUntil),
				Categories: categorySet(entry.Categories),
			}
			// A show_until that fails to parse must not widen visibility.
			if strings.TrimSpace(entry.ShowUntil) != "" && date.ShowUntil.IsZero() {
				date.Date = types.Date{}
			}
			rule.Dates = append(rule.Dates, date)
		}
		return rule, warnings
	}

	rule := shipping.ASAPRule{
		MaxShipDays: doc.MaxShipDays,
		Categories:  categorySet(doc.Categories),
	}
	if rule.MaxShipDays < 0 {
		rule.MaxShipDays = 0
	}
	for _, day := range doc.SendingDays {
		if wd := shipping.Weekday(day); wd.IsValid() {
			rule.SendingDays = append(rule.SendingDays, wd)
		}
	}
	for _, entry := range doc.PriorityDays {
		rule.PriorityDays = append(rule.PriorityDays, shipping.PriorityDay{
			Date:       parse("priority_day", entry.Date),
			Categories: categorySet(entry.Categories),
		})
	}
	return rule, warnings
}

func categorySet(ids []int64) shipping.CategorySet {
	out := make(shipping.CategorySet, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, shipping.CategoryID(id))
		}
	}
	return out.Union()
}
