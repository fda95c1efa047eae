package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestShippingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewShippingMetrics(reg)
	m.ObserveRate("flat_rate")
	m.ObserveRate("flat_rate")
	m.IncHidden("local_pickup", "category_mismatch")
	m.IncEstimate("asap", "computed")
	m.IncSelection("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "shipping_rates_evaluated_total", "method", "flat_rate"); err != nil {
		t.Fatalf("fetch evaluated: %v", err)
	} else if got != 2 {
		t.Fatalf("expected evaluated=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "shipping_rates_hidden_total", "reason", "category_mismatch"); err != nil {
		t.Fatalf("fetch hidden: %v", err)
	} else if got != 1 {
		t.Fatalf("expected hidden=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "shipping_estimates_total", "outcome", "computed"); err != nil {
		t.Fatalf("fetch estimates: %v", err)
	} else if got != 1 {
		t.Fatalf("expected estimates=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "shipping_selection_validations_total", "outcome", "unknown"); err != nil {
		t.Fatalf("fetch selections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected empty outcome to normalize to unknown, got %f", got)
	}
}

func TestShippingMetricsNilSafe(t *testing.T) {
	var m *ShippingMetrics
	m.ObserveRate("x")
	m.IncHidden("x", "y")
	NewShippingMetrics(nil).IncEstimate("asap", "absent")
}
