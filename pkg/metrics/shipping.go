package metrics

import "github.com/prometheus/client_golang/prometheus"

// ShippingMetrics counts rate filtering and date estimation outcomes.
type ShippingMetrics struct {
	ratesEvaluated *prometheus.CounterVec
	ratesHidden    *prometheus.CounterVec
	estimates      *prometheus.CounterVec
	selections     *prometheus.CounterVec
}

// NewShippingMetrics registers the shipping metrics on the provided registerer.
func NewShippingMetrics(reg prometheus.Registerer) *ShippingMetrics {
	if reg == nil {
		return &ShippingMetrics{}
	}
	ratesEvaluated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_rates_evaluated_total",
		Help: "Shipping rates evaluated against category rules.",
	}, []string{"method"})
	ratesHidden := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_rates_hidden_total",
		Help: "Shipping rates withheld from customers.",
	}, []string{"method", "reason"})
	estimates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_estimates_total",
		Help: "Delivery date estimates by outcome.",
	}, []string{"rule_type", "outcome"})
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_selection_validations_total",
		Help: "Checkout shipping selection validations by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(ratesEvaluated, ratesHidden, estimates, selections)
	return &ShippingMetrics{
		ratesEvaluated: ratesEvaluated,
		ratesHidden:    ratesHidden,
		estimates:      estimates,
		selections:     selections,
	}
}

// ObserveRate records one evaluated rate.
func (m *ShippingMetrics) ObserveRate(method string) {
	if m == nil || m.ratesEvaluated == nil {
		return
	}
	m.ratesEvaluated.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncHidden records a rate withheld for reason.
func (m *ShippingMetrics) IncHidden(method, reason string) {
	if m == nil || m.ratesHidden == nil {
		return
	}
	m.ratesHidden.WithLabelValues(normalizeLabel(method), normalizeLabel(reason)).Inc()
}

// IncEstimate records an estimate outcome such as "computed" or "absent".
func (m *ShippingMetrics) IncEstimate(ruleType, outcome string) {
	if m == nil || m.estimates == nil {
		return
	}
	m.estimates.WithLabelValues(normalizeLabel(ruleType), normalizeLabel(outcome)).Inc()
}

// IncSelection records a checkout validation outcome.
func (m *ShippingMetrics) IncSelection(outcome string) {
	if m == nil || m.selections == nil {
		return
	}
	m.selections.WithLabelValues(normalizeLabel(outcome)).Inc()
}
