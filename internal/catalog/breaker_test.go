package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Second, nil)
	cb.now = func() time.Time { return now }

	require.NoError(t, cb.Allow())
	cb.RecordFailure()
	require.Equal(t, CircuitClosed, cb.State())

	require.NoError(t, cb.Allow())
	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	require.ErrorIs(t, cb.Allow(), ErrCircuitOpen)

	now = now.Add(2 * time.Second)
	require.Equal(t, CircuitHalfOpen, cb.State())

	require.NoError(t, cb.Allow())
	cb.RecordSuccess()
	require.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, time.Second, nil)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	now = now.Add(2 * time.Second)
	require.NoError(t, cb.Allow())

	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())
	require.ErrorIs(t, cb.Allow(), ErrCircuitOpen)
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker(0, time.Second, nil)
	for i := 0; i < 10; i++ {
		cb.RecordFailure()
	}
	require.NoError(t, cb.Allow())
	require.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitStateString(t *testing.T) {
	require.Equal(t, "closed", CircuitClosed.String())
	require.Equal(t, "open", CircuitOpen.String())
	require.Equal(t, "half_open", CircuitHalfOpen.String())
	require.Equal(t, "unknown", CircuitState(42).String())
}

func TestRetryConfigNormalizedAndDelay(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 0, InitialDelay: -1, MaxDelay: 0, BackoffFactor: 0.5}.normalized()
	require.Equal(t, 1, cfg.MaxAttempts)
	require.Zero(t, cfg.InitialDelay)
	require.Equal(t, DefaultRetryConfig().MaxDelay, cfg.MaxDelay)
	require.Equal(t, 1.0, cfg.BackoffFactor)

	cfg = RetryConfig{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}
	require.Equal(t, 200*time.Millisecond, cfg.nextDelay(100*time.Millisecond))
	require.Equal(t, 300*time.Millisecond, cfg.nextDelay(200*time.Millisecond))
}
