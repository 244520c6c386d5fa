package resilience

import (
	"context"
	"time"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/clock"
)

// Probe is one idempotent attempt. It returns true on success and false on
// a recoverable failure (network, 5xx, stale data). A non-nil error is an
// unexpected defect and stops the retry loop.
type Probe func(ctx context.Context) (bool, error)

// RetryPolicy controls Retry. The delay between attempts is fixed.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Clock       clock.Clock

	// OnAttempt, when set, observes every finished attempt.
	OnAttempt func(attempt int, ok bool, err error)
}

// DefaultRetryPolicy is the reconciliation policy: three attempts, 500ms
// apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
	}
}

// Immediate returns a copy of the policy without delay between attempts.
func (p RetryPolicy) Immediate() RetryPolicy {
	p.Delay = 0
	return p
}

// Retry calls probe at most MaxAttempts times (at least once), waiting
// Delay between attempts. It returns true as soon as an attempt succeeds
// and false once every attempt has failed. A probe error or a cancelled
// context ends the loop early and is returned with false.
func Retry(ctx context.Context, policy RetryPolicy, probe Probe) (bool, error) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	clk := policy.Clock
	if clk == nil {
		clk = clock.Real()
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		ok, err := probe(ctx)
		if policy.OnAttempt != nil {
			policy.OnAttempt(attempt, ok, err)
		}
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		if attempt == attempts || policy.Delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-clk.After(policy.Delay):
		}
	}

	return false, nil
}
