/*
Package resilience holds the two failure-handling primitives of the engine.

# Retry

Retry is the bounded reconciliation loop. A Probe reports success with true,
a recoverable failure with false, and an unexpected defect with an error.
Attempts are spaced by a fixed delay taken from an injectable clock, so tests
run with RetryPolicy.Immediate() or a clock.FakeClock.

	ok, err := resilience.Retry(ctx, resilience.DefaultRetryPolicy(), probe)

# Breaker

Breaker guards calls to the remote service. After ReadyToTrip reports too
many consecutive transport failures it opens and rejects calls with
ErrCircuitOpen until Timeout elapses, then lets MaxRequests trial calls
through:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
