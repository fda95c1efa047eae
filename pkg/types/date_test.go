package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateStrict(t *testing.T) {
	cases := map[string]bool{
		"2026-01-14":  true,
		" 2026-01-14": true,
		"2026-1-14":   false,
		"2026-02-30":  false,
		"14/01/2026":  false,
		"":            false,
		"2026-01-14x": false,
	}
	for input, ok := range cases {
		_, err := ParseDate(input)
		if ok && err != nil {
			t.Fatalf("expected %q to parse, got %v", input, err)
		}
		if !ok && err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestDateOfUsesLocationCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	instant := time.Date(2026, 1, 13, 22, 30, 0, 0, time.UTC)

	if got := DateOf(instant).String(); got != "2026-01-13" {
		t.Fatalf("expected utc day 2026-01-13, got %s", got)
	}
	if got := DateOf(instant.In(loc)).String(); got != "2026-01-14" {
		t.Fatalf("expected local day 2026-01-14, got %s", got)
	}
}

func TestDateArithmeticAndWeekday(t *testing.T) {
	d := MustParseDate("2026-01-31")
	if got := d.AddDays(1).String(); got != "2026-02-01" {
		t.Fatalf("expected month rollover, got %s", got)
	}
	if got := MustParseDate("2026-01-12").ISOWeekday(); got != 1 {
		t.Fatalf("expected monday=1, got %d", got)
	}
	if got := MustParseDate("2026-01-18").ISOWeekday(); got != 7 {
		t.Fatalf("expected sunday=7, got %d", got)
	}
	if !d.Before(d.AddDays(1)) || !d.AddDays(1).After(d) || !d.Equal(MustParseDate("2026-01-31")) {
		t.Fatal("comparison helpers disagree")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		When Date  `json:"when"`
		Opt  *Date `json:"opt,omitempty"`
	}
	raw, err := json.Marshal(payload{When: MustParseDate("2026-03-01")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"when":"2026-03-01"}` {
		t.Fatalf("unexpected json %s", raw)
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"when":""}`), &decoded); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !decoded.When.IsZero() {
		t.Fatalf("expected zero date, got %s", decoded.When)
	}
	if err := json.Unmarshal([]byte(`{"when":"2026-3-1"}`), &decoded); err == nil {
		t.Fatal("expected malformed date to fail")
	}
}

func TestDateScanValue(t *testing.T) {
	var d Date
	if err := d.Scan("2026-05-04"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2026-05-04" {
		t.Fatalf("unexpected scan result %s", d)
	}
	if err := d.Scan(time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	v, err := d.Value()
	if err != nil || v != "2026-05-05" {
		t.Fatalf("unexpected value %v (%v)", v, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("expected nil scan to zero the date")
	}
	if v, _ := d.Value(); v != nil {
		t.Fatalf("expected NULL for zero date, got %v", v)
	}
}
