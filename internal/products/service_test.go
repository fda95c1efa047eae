package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/clock"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

type stubSettings struct {
	snap settings.Snapshot
	err  error
}

func (s stubSettings) Snapshot(context.Context) (settings.Snapshot, error) {
	return s.snap, s.err
}

func newTestService(t *testing.T, src SettingsSource) Service {
	t.Helper()
	calc := shipping.NewCalculator(clock.NewFixed(time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)), time.UTC)
	svc, err := NewService(src, calc)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func snapshot() settings.Snapshot {
	conf := settings.DefaultSettings()
	conf.MethodNames["flat_rate"] = "Courier"
	conf.MethodImages["flat_rate"] = "https://cdn.example/courier.png"
	conf.Disclaimer = settings.Disclaimer{Enabled: true, Text: "Estimates only", URL: "https://shop.example/d"}
	return settings.Snapshot{
		Rules: shipping.RuleSet{
			"flat_rate": shipping.ASAPRule{
				SendingDays: []shipping.Weekday{shipping.Monday, shipping.Thursday},
				MaxShipDays: 2,
				Categories:  shipping.CategorySet{10},
				PriorityDays: []shipping.PriorityDay{
					{Date: types.MustParseDate("2026-01-22"), Categories: shipping.CategorySet{30}},
				},
			},
			"pickup": shipping.ByDateRule{Dates: []shipping.ReservationDate{
				{Date: types.MustParseDate("2026-01-20"), Label: "Pickup Tue", Categories: shipping.CategorySet{10}},
				{Date: types.MustParseDate("2026-01-12"), Label: "Past", Categories: shipping.CategorySet{10}},
				{Date: types.MustParseDate("2026-01-27"), Label: "Later", Categories: shipping.CategorySet{20}},
			}},
		},
		Settings: conf,
	}
}

func TestShippingInfoListsMatchingMethods(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubSettings{snap: snapshot()})
	info, err := svc.ShippingInfo(context.Background(), []int64{10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Methods) != 2 {
		t.Fatalf("expected two methods, got %+v", info.Methods)
	}

	courier := info.Methods[0]
	if courier.Name != "Courier" || courier.DeliverBy != "2026-01-19" || courier.ImageURL != "https://cdn.example/courier.png" {
		t.Fatalf("unexpected asap info %+v", courier)
	}
	pickup := info.Methods[1]
	if pickup.Name != "pickup" || len(pickup.Dates) != 1 || pickup.Dates[0] != "Pickup Tue" || pickup.ImageURL != "" {
		t.Fatalf("unexpected pickup info %+v", pickup)
	}
	if pickup.DateLabel != "Available to reserve:" {
		t.Fatalf("unexpected date label %q", pickup.DateLabel)
	}
	if info.Disclaimer != "Estimates only" {
		t.Fatalf("expected disclaimer, got %q", info.Disclaimer)
	}
}

func TestShippingInfoPriorityCategory(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubSettings{snap: snapshot()})
	info, err := svc.ShippingInfo(context.Background(), []int64{30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Methods) != 1 {
		t.Fatalf("expected only the asap method, got %+v", info.Methods)
	}
	if got := info.Methods[0]; got.ShipBy != "2026-01-22" || got.DeliverBy != "2026-01-26" {
		t.Fatalf("expected priority day to push the ship date, got %+v", got)
	}
}

func TestShippingInfoNoMatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubSettings{err: errors.New("unused")})
	info, err := svc.ShippingInfo(context.Background(), nil)
	if err != nil || len(info.Methods) != 0 {
		t.Fatalf("expected empty info for uncategorized product, got %+v (%v)", info, err)
	}

	svc = newTestService(t, stubSettings{snap: snapshot()})
	info, err = svc.ShippingInfo(context.Background(), []int64{99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Methods) != 0 || info.Disclaimer != "" {
		t.Fatalf("expected nothing for unmatched product, got %+v", info)
	}
}
