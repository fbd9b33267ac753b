package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("discord: 502 bad gateway")

type transition struct{ from, to State }

func newTestBreaker(t *testing.T, cfg Config, opts ...Option) (*Breaker, *time.Time, *[]transition) {
	t.Helper()
	var seen []transition
	opts = append(opts, OnStateChange(func(from, to State) {
		seen = append(seen, transition{from, to})
	}))
	cfg.Enabled = true
	b := New(cfg, opts...)
	require.NotNil(t, b)

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, &seen
}

func fail() error    { return errUnavailable }
func succeed() error { return nil }

func TestBreaker_OpensAfterThresholdAndRecovers(t *testing.T) {
	t.Parallel()
	b, now, seen := newTestBreaker(t, Config{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	require.ErrorIs(t, b.Do(fail), errUnavailable)
	assert.Equal(t, StateClosed, b.State())
	require.ErrorIs(t, b.Do(fail), errUnavailable)
	assert.Equal(t, StateOpen, b.State())

	calls := 0
	err := b.Do(func() error { calls++; return nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, calls)

	*now = now.Add(6 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, *seen)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBreaker(t, Config{FailureThreshold: 2})

	_ = b.Do(fail)
	require.NoError(t, b.Do(succeed))
	_ = b.Do(fail)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()
	b, now, _ := newTestBreaker(t, Config{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 2})

	_ = b.Do(fail)
	*now = now.Add(2 * time.Second)

	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateHalfOpen, b.State(), "one of two probes passed")

	require.ErrorIs(t, b.Do(fail), errUnavailable)
	assert.Equal(t, StateOpen, b.State())
	require.ErrorIs(t, b.Do(succeed), ErrCircuitOpen)
}

func TestBreaker_CountIfIgnoresCallerMistakes(t *testing.T) {
	t.Parallel()
	notFound := errors.New("unknown member")
	b, _, _ := newTestBreaker(t, Config{FailureThreshold: 1},
		CountIf(func(err error) bool { return !errors.Is(err, notFound) }))

	require.ErrorIs(t, b.Do(func() error { return notFound }), notFound)
	assert.Equal(t, StateClosed, b.State())

	_ = b.Do(fail)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_NilAndDisabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New(Config{Enabled: false, FailureThreshold: 1}))

	var b *Breaker
	called := false
	require.NoError(t, b.Do(func() error { called = true; return nil }))
	assert.True(t, called)
	assert.Equal(t, StateClosed, b.State())
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	got := Config{}.withDefaults()
	assert.Equal(t, Config{FailureThreshold: 5, OpenTimeout: 15 * time.Second, HalfOpenProbes: 1}, got)
}
