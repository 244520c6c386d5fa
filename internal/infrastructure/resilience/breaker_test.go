package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errUnreachable = errors.New("gateway unreachable")
	start          = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

func fail() error { return errUnreachable }
func ok() error   { return nil }

func tripAfter(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		calls         []func() error
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{MaxRequests: 1},
			calls:         []func() error{ok, ok, ok},
			expectedState: StateClosed,
		},
		{
			name:          "opens after consecutive failures",
			settings:      Settings{ReadyToTrip: tripAfter(3)},
			calls:         []func() error{fail, fail, fail},
			expectedState: StateOpen,
		},
		{
			name:          "success resets the failure streak",
			settings:      Settings{ReadyToTrip: tripAfter(3)},
			calls:         []func() error{fail, fail, ok, fail, fail},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.settings.Clock = clock.Fake(start)
			breaker := NewBreaker("gateway", tt.settings)

			for _, call := range tt.calls {
				_ = breaker.Execute(call)
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := NewBreaker("gateway", Settings{Clock: clock.Fake(start)})

	require.NoError(t, breaker.Execute(ok))

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)

	err := breaker.Execute(fail)
	assert.ErrorIs(t, err, errUnreachable)

	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerOpenFailsFast(t *testing.T) {
	breaker := NewBreaker("gateway", Settings{
		Clock:       clock.Fake(start),
		ReadyToTrip: tripAfter(2),
	})

	_ = breaker.Execute(fail)
	_ = breaker.Execute(fail)
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	fake := clock.Fake(start)
	breaker := NewBreaker("gateway", Settings{
		Clock:       fake,
		MaxRequests: 2,
		Timeout:     10 * time.Second,
		ReadyToTrip: tripAfter(2),
	})

	_ = breaker.Execute(fail)
	_ = breaker.Execute(fail)
	require.Equal(t, StateOpen, breaker.State())

	fake.Advance(10 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, breaker.Execute(ok))
	require.NoError(t, breaker.Execute(ok))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	fake := clock.Fake(start)
	breaker := NewBreaker("gateway", Settings{
		Clock:       fake,
		Timeout:     time.Second,
		ReadyToTrip: tripAfter(1),
	})

	_ = breaker.Execute(fail)
	fake.Advance(time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = breaker.Execute(fail)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	fake := clock.Fake(start)

	breaker := NewBreaker("gateway", Settings{
		Clock:       fake,
		Timeout:     time.Second,
		ReadyToTrip: tripAfter(2),
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = breaker.Execute(fail)
	_ = breaker.Execute(fail)
	fake.Advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	assert.Equal(t, []string{"closed->open", "open->half-open"}, transitions)
}
