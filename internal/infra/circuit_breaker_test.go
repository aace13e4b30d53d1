package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTPDown = errors.New("smtp down")

func failingCB(t *testing.T, openTimeout time.Duration) *CircuitBreaker {
	t.Helper()
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := failingCB(t, time.Minute)

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errSMTPDown })
		assert.ErrorIs(t, err, errSMTPDown)
	}
	assert.Equal(t, CBOpen, cb.State())

	// open breaker fast-fails without calling fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := failingCB(t, time.Minute)

	require.Error(t, cb.Execute(func() error { return errSMTPDown }))
	require.Error(t, cb.Execute(func() error { return errSMTPDown }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// the streak restarted: two more failures are not enough to trip
	require.Error(t, cb.Execute(func() error { return errSMTPDown }))
	require.Error(t, cb.Execute(func() error { return errSMTPDown }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_RecoveryViaHalfOpen(t *testing.T) {
	cb := failingCB(t, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSMTPDown })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// two probe successes close the breaker
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := failingCB(t, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSMTPDown })
	}
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errSMTPDown }))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
