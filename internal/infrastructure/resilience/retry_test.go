package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProbe answers from results in order and records how often it ran.
func countingProbe(results ...bool) (Probe, *int) {
	calls := 0
	return func(ctx context.Context) (bool, error) {
		calls++
		if calls > len(results) {
			return false, nil
		}
		return results[calls-1], nil
	}, &calls
}

func TestRetryBound(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		results     []bool
		wantOK      bool
		wantCalls   int
	}{
		{"first attempt succeeds", 3, []bool{true}, true, 1},
		{"second attempt succeeds", 3, []bool{false, true}, true, 2},
		{"last attempt succeeds", 3, []bool{false, false, true}, true, 3},
		{"all attempts fail", 3, []bool{false, false, false, true}, false, 3},
		{"single attempt", 1, []bool{false, true}, false, 1},
		{"non-positive attempts probe once", 0, []bool{true}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe, calls := countingProbe(tt.results...)
			policy := RetryPolicy{MaxAttempts: tt.maxAttempts}

			got, err := Retry(context.Background(), policy, probe)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, got)
			assert.Equal(t, tt.wantCalls, *calls)
		})
	}
}

func TestRetryPropagatesDefects(t *testing.T) {
	defect := errors.New("decoder bug")
	calls := 0

	ok, err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3}, func(ctx context.Context) (bool, error) {
		calls++
		return false, defect
	})

	assert.False(t, ok)
	assert.ErrorIs(t, err, defect)
	assert.Equal(t, 1, calls)
}

func TestRetryWaitsFixedDelay(t *testing.T) {
	fake := clock.Fake(start)
	probe, calls := countingProbe(false, false, true)
	policy := RetryPolicy{MaxAttempts: 3, Delay: 500 * time.Millisecond, Clock: fake}

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := Retry(context.Background(), policy, probe)
		done <- result{ok, err}
	}()

	for i := 0; i < 2; i++ {
		fake.WaitForPending(1)
		fake.Advance(500 * time.Millisecond)
	}

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.True(t, r.ok)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not finish")
	}
	assert.Equal(t, 3, *calls)
	assert.Equal(t, start.Add(time.Second), fake.Now())
}

func TestRetryStopsOnCancel(t *testing.T) {
	fake := clock.Fake(start)
	probe, calls := countingProbe(false, true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, RetryPolicy{MaxAttempts: 3, Delay: time.Second, Clock: fake}, probe)
		done <- err
	}()

	fake.WaitForPending(1)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry ignored cancellation")
	}
	assert.Equal(t, 1, *calls)
}

func TestRetryReportsAttempts(t *testing.T) {
	probe, _ := countingProbe(false, true)
	var seen []int

	policy := DefaultRetryPolicy().Immediate()
	policy.OnAttempt = func(attempt int, ok bool, err error) {
		seen = append(seen, attempt)
	}

	ok, err := Retry(context.Background(), policy, probe)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, seen)
}
