package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
)

func TestParseQueryIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?categories=3,%207&categories=9", nil)
	ids, err := ParseQueryIDs(req, "categories", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 7 || ids[2] != 9 {
		t.Fatalf("unexpected ids %v", ids)
	}

	req = httptest.NewRequest(http.MethodGet, "/?categories=0", nil)
	if _, err := ParseQueryIDs(req, "categories", 10); err == nil {
		t.Fatal("expected non-positive id to fail")
	}

	req = httptest.NewRequest(http.MethodGet, "/?categories=1,2,3", nil)
	if _, err := ParseQueryIDs(req, "categories", 2); err == nil {
		t.Fatal("expected limit to be enforced")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	ids, err = ParseQueryIDs(req, "categories", 2)
	if err != nil || ids != nil {
		t.Fatalf("expected nil ids, got %v (%v)", ids, err)
	}
}

func TestDecodeJSONBodyValidatesISODate(t *testing.T) {
	type payload struct {
		Date string `json:"date" validate:"required,isodate"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2026-01-14"}`))
	var ok payload
	if err := DecodeJSONBody(req, &ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"14/01/2026"}`))
	var bad payload
	err := DecodeJSONBody(req, &bad)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["date"] != "must be a date formatted YYYY-MM-DD" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	var p payload
	if err := DecodeJSONBody(req, &p); err == nil {
		t.Fatal("expected unknown field to fail")
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"  Pickup  ", 4, "Pick"},
		{"Local\t\tpickup\n", 0, "Local pickup"},
		{"Zustellung\x00 Montag", 0, "Zustellung Montag"},
		{"Envío rápido", 5, "Envío"},
		{"ab cd", 3, "ab"},
		{"bad\xffbyte", 0, "badbyte"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.maxLen); got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestDecodeJSONBodyReportsNestedPaths(t *testing.T) {
	type item struct {
		Quantity int `json:"quantity" validate:"gte=0"`
	}
	type payload struct {
		Items []item `json:"items" validate:"dive"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"quantity":1},{"quantity":-2}]}`))
	var p payload
	typed := pkgerrors.As(DecodeJSONBody(req, &p))
	if typed == nil {
		t.Fatal("expected validation error")
	}
	details, _ := typed.Details().(map[string]string)
	if details["items[1].quantity"] != "must be at least 0" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingBodies(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	for body, want := range map[string]string{
		"":                      "request body is required",
		`{"name":"a"} {"x":1}`:  "request body must contain a single JSON document",
		strings.Repeat(" ", 10): "request body is required",
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var p payload
		typed := pkgerrors.As(DecodeJSONBody(req, &p))
		if typed == nil || typed.Message() != want {
			t.Fatalf("body %q: expected %q, got %v", body, want, typed)
		}
	}
}

func TestDecodeJSONBodyEnforcesSizeLimit(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	big := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	var p payload
	typed := pkgerrors.As(DecodeJSONBody(req, &p))
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || !strings.Contains(typed.Message(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", typed)
	}
}
