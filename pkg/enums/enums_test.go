package enums

import "testing"

func TestParseRuleType(t *testing.T) {
	cases := []struct {
		input   string
		want    RuleType
		wantErr bool
	}{
		{input: "asap", want: RuleTypeASAP},
		{input: " BY_DATE ", want: RuleTypeByDate},
		{input: "weekly", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseRuleType(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestDisplayLocationAndRoleValidity(t *testing.T) {
	if !DisplayLocationOrderReview.IsValid() {
		t.Fatal("order_review should be valid")
	}
	if DisplayLocation("sidebar").IsValid() {
		t.Fatal("sidebar should be invalid")
	}
	if _, err := ParseActorRole("shop_manager"); err != nil {
		t.Fatalf("expected shop_manager to parse: %v", err)
	}
	if ActorRole("customer").IsValid() {
		t.Fatal("customer should not be a valid actor role")
	}
}
