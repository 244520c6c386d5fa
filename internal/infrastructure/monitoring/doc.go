/*
Package monitoring provides Prometheus metrics for the sync engine.

Engine metrics cover gateway calls, reconciliation runs and attempts,
stale-result discards, persistence failures, and whether a session is held.
The stub server adds per-route request metrics through Middleware.

Collectors are registered on an explicit registry so several engines (or
tests) can live in one process:

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	timer := monitoring.NewTimer(metrics, "fetch_profile")
	defer timer.Observe("success")

A nil *Metrics is valid and records nothing.
*/
package monitoring
