package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API and worker.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TenantResolution      *prometheus.CounterVec
	SecurityEvents        *prometheus.CounterVec
	SecurityEventsDropped prometheus.Counter
	OrderTransitions      *prometheus.CounterVec
	PaymentOperations     *prometheus.CounterVec
	WebhookDeliveries     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantResolution: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "tenant",
			Name:      "resolution_total",
			Help:      "Restaurant context resolutions by outcome.",
		}, []string{"outcome"}), // outcome: resolved, skipped, or an error code
		SecurityEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "security",
			Name:      "events_total",
			Help:      "Security events recorded by action.",
		}, []string{"action"}),
		SecurityEventsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "security",
			Name:      "events_dropped_total",
			Help:      "Security events dropped because the recorder queue was full.",
		}),
		OrderTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
		PaymentOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "payments",
			Name:      "operations_total",
			Help:      "Payment operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		WebhookDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinehub",
			Subsystem: "webhooks",
			Name:      "deliveries_total",
			Help:      "Webhook delivery attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Tenant(outcome string) {
	if m == nil {
		return
	}
	m.TenantResolution.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Security(action string) {
	if m == nil {
		return
	}
	m.SecurityEvents.WithLabelValues(action).Inc()
}

func (m *Metrics) SecurityDropped() {
	if m == nil {
		return
	}
	m.SecurityEventsDropped.Inc()
}

func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Payment(op, outcome string) {
	if m == nil {
		return
	}
	m.PaymentOperations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Webhook(outcome string) {
	if m == nil {
		return
	}
	m.WebhookDeliveries.WithLabelValues(outcome).Inc()
}
