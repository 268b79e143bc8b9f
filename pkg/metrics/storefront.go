package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart reconciliation and optimistic-mutation outcomes.
type StorefrontMetrics struct {
	syncOutcomes *prometheus.CounterVec
	rollbacks    *prometheus.CounterVec
	backendCalls *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	syncOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_sync_outcomes_total",
		Help: "Cart resync attempts by outcome.",
	}, []string{"outcome"})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimistic_rollbacks_total",
		Help: "Optimistic mutations rolled back after a backend failure.",
	}, []string{"resource"})
	backendCalls := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the commerce backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(syncOutcomes, rollbacks, backendCalls)
	return &StorefrontMetrics{
		syncOutcomes: syncOutcomes,
		rollbacks:    rollbacks,
		backendCalls: backendCalls,
	}
}

// ObserveSyncOutcome counts one resync attempt with the given outcome label.
func (m *StorefrontMetrics) ObserveSyncOutcome(outcome string) {
	if m == nil || m.syncOutcomes == nil {
		return
	}
	m.syncOutcomes.WithLabelValues(outcome).Inc()
}

// IncRollback counts one optimistic rollback for the named resource.
func (m *StorefrontMetrics) IncRollback(resource string) {
	if m == nil || m.rollbacks == nil {
		return
	}
	m.rollbacks.WithLabelValues(resource).Inc()
}

// ObserveBackendCall records the duration of one backend operation.
func (m *StorefrontMetrics) ObserveBackendCall(operation string, duration time.Duration) {
	if m == nil || m.backendCalls == nil {
		return
	}
	m.backendCalls.WithLabelValues(operation).Observe(duration.Seconds())
}
