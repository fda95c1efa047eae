package settings

import (
	"testing"

	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

func TestResolveRulesBuildsTypedRules(t *testing.T) {
	t.Parallel()

	docs := map[string]types.RuleDocument{
		"flat_rate": {
			Type:        "ASAP",
			SendingDays: []int{1, 4, 9},
			MaxShipDays: 2,
			Categories:  []int64{3, 3, -1},
			PriorityDays: []types.PriorityDayDocument{
				{Date: "2026-01-22", Categories: []int64{7}},
			},
		},
		"local_pickup": {
			Type: "by_date",
			Dates: []types.ReservationDateDocument{
				{Date: "2026-02-14", Label: " Valentine ", ShowUntil: "2026-02-10", Categories: []int64{5}},
			},
		},
		"legacy": {Type: "asap", Categories: []int64{1}},
	}

	rules, err := ResolveRules(docs, []shipping.MethodID{"legacy"})
	if err != nil {
		t.Fatalf("unexpected warnings: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected hidden method to be dropped, got %d rules", len(rules))
	}

	asap, ok := rules["flat_rate"].(shipping.ASAPRule)
	if !ok {
		t.Fatalf("expected asap rule, got %T", rules["flat_rate"])
	}
	if len(asap.SendingDays) != 2 || asap.SendingDays[1] != shipping.Thursday {
		t.Fatalf("unexpected sending days %v", asap.SendingDays)
	}
	if len(asap.Categories) != 1 || asap.Categories[0] != 3 {
		t.Fatalf("unexpected categories %v", asap.Categories)
	}
	if asap.PriorityDays[0].Date.String() != "2026-01-22" {
		t.Fatalf("unexpected priority day %v", asap.PriorityDays[0].Date)
	}

	byDate, ok := rules["local_pickup"].(shipping.ByDateRule)
	if !ok {
		t.Fatalf("expected by_date rule, got %T", rules["local_pickup"])
	}
	if got := byDate.Dates[0]; got.Label != "Valentine" || got.ShowUntil.String() != "2026-02-10" {
		t.Fatalf("unexpected reservation date %+v", got)
	}
}

func TestResolveRulesUnknownTypeFallsBackToASAP(t *testing.T) {
	t.Parallel()

	rules, err := ResolveRules(map[string]types.RuleDocument{"x": {Type: "weekly", MaxShipDays: -3}}, nil)
	if err != nil {
		t.Fatalf("unexpected warnings: %v", err)
	}
	rule, ok := rules["x"].(shipping.ASAPRule)
	if !ok || rule.MaxShipDays != 0 {
		t.Fatalf("expected clamped asap rule, got %#v", rules["x"])
	}
	if rule.Type() != enums.RuleTypeASAP {
		t.Fatalf("unexpected type %s", rule.Type())
	}
}

func TestResolveRulesMalformedDatesAreSkipped(t *testing.T) {
	t.Parallel()

	docs := map[string]types.RuleDocument{
		"pickup": {
			Type: "by_date",
			Dates: []types.ReservationDateDocument{
				{Date: "14/02/2026"},
				{Date: "2026-02-20", ShowUntil: "soon"},
				{Date: "2026-02-21"},
			},
		},
	}
	rules, err := ResolveRules(docs, nil)
	if err == nil {
		t.Fatal("expected warnings for malformed dates")
	}
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("expected one warning per method, got %d", got)
	}

	rule := rules["pickup"].(shipping.ByDateRule)
	if rule.Dates[0].Valid() || rule.Dates[1].Valid() {
		t.Fatalf("expected malformed entries to resolve to zero dates: %+v", rule.Dates)
	}
	today := types.MustParseDate("2026-02-01")
	offered := shipping.VisibleReservationDates(rule, nil, today)
	if len(offered) != 0 {
		t.Fatalf("expected empty category sets to offer nothing, got %v", offered)
	}
	rule.Dates[2].Categories = shipping.CategorySet{1}
	offered = shipping.VisibleReservationDates(rule, shipping.CartCategories{{1}}, today)
	if len(offered) != 1 || offered[0].Date.String() != "2026-02-21" {
		t.Fatalf("expected only the valid date to be offered, got %v", offered)
	}
}

func TestResolveHolidays(t *testing.T) {
	t.Parallel()

	cal, err := ResolveHolidays([]types.HolidayDocument{
		{Date: "2026-12-25", Label: "Christmas"},
		{Date: "25.12.2026"},
	})
	if err == nil {
		t.Fatal("expected warning for malformed holiday")
	}
	if cal.Len() != 1 || !cal.IsHoliday(types.MustParseDate("2026-12-25")) {
		t.Fatalf("expected one parsed holiday")
	}
}

func TestResolveSettingsDefaultsAndNames(t *testing.T) {
	t.Parallel()

	s := ResolveSettings(types.SettingsDocument{
		Translations:    map[string]string{"asap_prefix": "Arrives by", "unknown": "x"},
		DisplayLocation: "sidebar",
		MethodNames:     map[string]string{"flat_rate": "Courier", "flat_rate:2": "Courier Plus"},
		Disclaimer:      types.DisclaimerDocument{Enabled: true, Text: " Dates are estimates. ", URL: "https://shop.example/delivery"},
		FreeShipping: types.FreeShippingDocument{
			Enabled: true,
			Thresholds: map[string]decimal.Decimal{
				"flat_rate": decimal.NewFromInt(40),
				"express":   decimal.Zero,
			},
		},
	})

	if s.DisplayLocation != enums.DisplayLocationBilling {
		t.Fatalf("expected invalid location to fall back to billing, got %s", s.DisplayLocation)
	}
	if s.Translations.ASAPPrefix != "Arrives by" || s.Translations.DayMonday != "Monday" {
		t.Fatalf("unexpected translations %+v", s.Translations)
	}
	if got := s.MethodName("flat_rate:2"); got != "Courier Plus" {
		t.Fatalf("expected instance name, got %q", got)
	}
	if got := s.MethodName("flat_rate:9"); got != "Courier" {
		t.Fatalf("expected base name, got %q", got)
	}
	if got := s.MethodName("express"); got != "express" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	if !s.Disclaimer.Visible() || s.Disclaimer.PlainText() != "Dates are estimates.: https://shop.example/delivery" {
		t.Fatalf("unexpected disclaimer %+v", s.Disclaimer)
	}
	if (Disclaimer{Enabled: true, Text: "no link"}).Visible() {
		t.Fatal("expected disclaimer without url to stay hidden")
	}
	if _, ok := s.FreeShipping.Thresholds["express"]; ok {
		t.Fatal("expected zero threshold to be dropped")
	}
}
