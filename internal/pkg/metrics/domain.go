package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supplychain"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// DomainMetrics counts business events: alerts raised per code, ledger
// attestations and stock reconciliations per outcome.
type DomainMetrics struct {
	alerts          *prometheus.CounterVec
	attestations    *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	changes         *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_alerts_total",
		Help:      "Alerts raised by telemetry evaluation.",
	}, []string{"code"})
	attestations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attestations_total",
		Help:      "Delivery attestations by kind and outcome.",
	}, []string{"kind", "outcome"})
	reconciliations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_reconciliations_total",
		Help:      "Per-order stock reconciliation outcomes.",
	}, []string{"outcome"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_feed_events_total",
		Help:      "Change feed events handled by observers.",
	}, []string{"collection", "outcome"})
	reg.MustRegister(alerts, attestations, reconciliations, changes)
	return &DomainMetrics{
		alerts:          alerts,
		attestations:    attestations,
		reconciliations: reconciliations,
		changes:         changes,
	}
}

func (m *DomainMetrics) IncAlert(code string) {
	if m == nil || m.alerts == nil {
		return
	}
	m.alerts.WithLabelValues(normalizeLabel(code)).Inc()
}

func (m *DomainMetrics) IncAttestation(kind, outcome string) {
	if m == nil || m.attestations == nil {
		return
	}
	m.attestations.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

func (m *DomainMetrics) IncReconciliation(outcome string) {
	if m == nil || m.reconciliations == nil {
		return
	}
	m.reconciliations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *DomainMetrics) IncChange(collection, outcome string) {
	if m == nil || m.changes == nil {
		return
	}
	m.changes.WithLabelValues(normalizeLabel(collection), normalizeLabel(outcome)).Inc()
}
