package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

type Config struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenProbes is how many trial calls a half-open breaker admits; all
	// of them must succeed before it closes again.
	HalfOpenProbes int
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = 1
	}
	return c
}

type Option func(*Breaker)

// CountIf limits which errors count as failures. Without it every error does.
func CountIf(fn func(error) bool) Option {
	return func(b *Breaker) { b.counts = fn }
}

// OnStateChange is called with the breaker lock released after each
// transition.
func OnStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

// Breaker stops calling a dependency after FailureThreshold consecutive
// failures, then lets a few probes through once OpenTimeout has passed. A nil
// *Breaker admits every call.
type Breaker struct {
	cfg      Config
	counts   func(error) bool
	onChange func(from, to State)
	now      func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openUntil time.Time
	admitted  int
	succeeded int
}

// New returns nil when cfg is disabled.
func New(cfg Config, opts ...Option) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	b := &Breaker{cfg: cfg.withDefaults(), state: StateClosed, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Do runs fn when the breaker admits it and returns fn's error unchanged.
func (b *Breaker) Do(fn func() error) error {
	if b == nil {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.settle(err != nil && (b.counts == nil || b.counts(err)))
	return err
}

func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && !b.now().Before(b.openUntil) {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	from := b.state
	if b.state == StateOpen {
		if b.now().Before(b.openUntil) {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.moveTo(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.admitted >= b.cfg.HalfOpenProbes {
			b.mu.Unlock()
			b.notify(from, StateHalfOpen)
			return ErrCircuitOpen
		}
		b.admitted++
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return nil
}

func (b *Breaker) settle(failed bool) {
	b.mu.Lock()
	from := b.state
	switch {
	case b.state == StateHalfOpen && failed:
		b.moveTo(StateOpen)
	case b.state == StateHalfOpen:
		b.succeeded++
		if b.succeeded >= b.cfg.HalfOpenProbes {
			b.moveTo(StateClosed)
		}
	case b.state == StateClosed && failed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(StateOpen)
		}
	case b.state == StateClosed:
		b.failures = 0
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

// moveTo resets the per-state counters. Callers hold mu.
func (b *Breaker) moveTo(s State) {
	b.state = s
	b.failures = 0
	b.admitted = 0
	b.succeeded = 0
	if s == StateOpen {
		b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	}
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
