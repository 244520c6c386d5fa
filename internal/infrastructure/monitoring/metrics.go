package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the engine and the stub
// server. All methods are no-ops on a nil *Metrics so components can run
// without instrumentation.
type Metrics struct {
	// Gateway metrics
	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec

	// Reconciliation metrics
	ReconcileRuns     *prometheus.CounterVec
	ReconcileAttempts *prometheus.CounterVec
	StaleDiscards     *prometheus.CounterVec

	// Session metrics
	Authenticated     prometheus.Gauge
	SessionOps        *prometheus.CounterVec
	PersistenceErrors *prometheus.CounterVec

	// Stub server metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics registers all collectors on reg. A nil reg gets a private
// registry, which keeps parallel tests and embedded engines apart.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_gateway_calls_total",
				Help: "Remote gateway calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gymsync_gateway_call_duration_seconds",
				Help:    "Remote gateway call duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),

		ReconcileRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_reconcile_runs_total",
				Help: "Reconciliation runs by final status",
			},
			[]string{"status"},
		),
		ReconcileAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_reconcile_attempts_total",
				Help: "Profile fetch attempts made by reconciliation",
			},
			[]string{"result"},
		),
		StaleDiscards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_stale_discards_total",
				Help: "Results dropped because the session changed while they were in flight",
			},
			[]string{"operation"},
		),

		Authenticated: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gymsync_session_authenticated",
				Help: "1 while a session token is held",
			},
		),
		SessionOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_session_operations_total",
				Help: "Lifecycle operations by name and outcome",
			},
			[]string{"operation", "outcome"},
		),
		PersistenceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_persistence_errors_total",
				Help: "Local storage failures by operation",
			},
			[]string{"operation"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymsync_devserver_requests_total",
				Help: "Stub server requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gymsync_devserver_request_duration_seconds",
				Help:    "Stub server request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordGatewayCall records one gateway call.
func (m *Metrics) RecordGatewayCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GatewayCalls.WithLabelValues(operation, outcome).Inc()
	m.GatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordReconcile records the final status of one reconciliation run.
func (m *Metrics) RecordReconcile(status string) {
	if m == nil {
		return
	}
	m.ReconcileRuns.WithLabelValues(status).Inc()
}

// RecordReconcileAttempt records one probe attempt.
func (m *Metrics) RecordReconcileAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.ReconcileAttempts.WithLabelValues(result).Inc()
}

// IncStaleDiscard records a result dropped after a session change.
func (m *Metrics) IncStaleDiscard(operation string) {
	if m == nil {
		return
	}
	m.StaleDiscards.WithLabelValues(operation).Inc()
}

// SetAuthenticated updates the authenticated gauge.
func (m *Metrics) SetAuthenticated(authenticated bool) {
	if m == nil {
		return
	}
	if authenticated {
		m.Authenticated.Set(1)
	} else {
		m.Authenticated.Set(0)
	}
}

// RecordSessionOp records one public lifecycle operation.
func (m *Metrics) RecordSessionOp(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.SessionOps.WithLabelValues(operation, outcome).Inc()
}

// IncPersistenceError records a storage failure.
func (m *Metrics) IncPersistenceError(operation string) {
	if m == nil {
		return
	}
	m.PersistenceErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records one stub server request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
