package shipping

import "testing"

func TestPickupRatesSkipsQuotedMethods(t *testing.T) {
	t.Parallel()

	locations := []PickupLocation{
		{Name: "Vilnius store", MethodID: "pickup_vilnius"},
		{Name: "Kaunas store", MethodID: "pickup_kaunas"},
		{Name: "Duplicate", MethodID: "pickup_kaunas"},
		{Name: "No id"},
	}
	quoted := []Rate{{Key: "pickup_vilnius:3", Label: "Vilnius (zone)"}}

	rates := PickupRates(locations, quoted)
	if len(rates) != 1 {
		t.Fatalf("expected one pickup rate, got %+v", rates)
	}
	if rates[0].Key != "pickup_kaunas" || rates[0].Label != "Kaunas store" || !rates[0].Cost.IsZero() {
		t.Fatalf("unexpected pickup rate %+v", rates[0])
	}
}

func TestPickupRatesFollowCategoryRules(t *testing.T) {
	t.Parallel()

	rules := RuleSet{"pickup_kaunas": ASAPRule{SendingDays: []Weekday{Monday}, Categories: cats(7)}}
	rates := PickupRates([]PickupLocation{{Name: "Kaunas store", MethodID: "pickup_kaunas"}}, nil)

	result := FilterRates(rules, rates, cart(cats(1)), date("2026-01-13"))
	if len(result.Rates) != 0 || !result.RemovedAll {
		t.Fatalf("expected pickup rate hidden for unmatched cart, got %+v", result)
	}
}

func TestMethodImagesLookup(t *testing.T) {
	t.Parallel()

	images := MethodImages{"flat_rate": "https://cdn.example/flat.png", "pickup_kaunas:2": "https://cdn.example/kaunas.png"}
	if url, ok := images.Lookup("flat_rate:4"); !ok || url != "https://cdn.example/flat.png" {
		t.Fatalf("expected base id fallback, got %q %v", url, ok)
	}
	if url, ok := images.Lookup("pickup_kaunas:2"); !ok || url != "https://cdn.example/kaunas.png" {
		t.Fatalf("expected exact match, got %q %v", url, ok)
	}
	if _, ok := images.Lookup("express"); ok {
		t.Fatal("expected no image for unknown method")
	}
}
