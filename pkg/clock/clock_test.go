package clock

import (
	"testing"
	"time"
)

func TestTodayFollowsStoreLocation(t *testing.T) {
	instant := time.Date(2026, 1, 13, 23, 30, 0, 0, time.UTC)
	c := NewFixed(instant)

	if got := Today(c, nil).String(); got != "2026-01-13" {
		t.Fatalf("expected utc date, got %s", got)
	}

	vilnius := time.FixedZone("EET", 2*60*60)
	if got := Today(c, vilnius).String(); got != "2026-01-14" {
		t.Fatalf("expected store date 2026-01-14, got %s", got)
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	if loc := NewSystem().Now().Location(); loc != time.UTC {
		t.Fatalf("expected UTC location, got %v", loc)
	}
}
