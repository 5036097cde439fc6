package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"    // Normal operation
	CircuitOpen     CircuitState = "OPEN"      // Backend failing, calls skipped
	CircuitHalfOpen CircuitState = "HALF_OPEN" // Probing whether the backend recovered
)

// ErrCircuitOpen is returned while the backend is being skipped.
var ErrCircuitOpen = errors.New("cache circuit breaker is open")

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int
	// SuccessThreshold is the number of half-open successes that closes it again
	SuccessThreshold int
	// Timeout is how long the circuit stays open before probing
	Timeout time.Duration
}

// DefaultBreakerConfig returns the breaker settings used for Redis.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// GuardedCache wraps a Repository so that a failing backend is skipped
// for a while instead of costing every request a timeout.
type GuardedCache struct {
	next   Repository
	config BreakerConfig
	now    func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time
	totalRejected   int64
}

// NewGuardedCache wraps next with a circuit breaker.
func NewGuardedCache(next Repository, config BreakerConfig) *GuardedCache {
	return &GuardedCache{
		next:   next,
		config: config,
		now:    time.Now,
		state:  CircuitClosed,
	}
}

// Get reads through the breaker.
func (g *GuardedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := g.allowRequest(); err != nil {
		return nil, false, err
	}
	val, ok, err := g.next.Get(ctx, key)
	g.record(err)
	return val, ok, err
}

// Set writes through the breaker.
func (g *GuardedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := g.allowRequest(); err != nil {
		return err
	}
	err := g.next.Set(ctx, key, value, ttl)
	g.record(err)
	return err
}

// Close closes the wrapped repository.
func (g *GuardedCache) Close() error {
	return g.next.Close()
}

// State returns the current circuit state.
func (g *GuardedCache) State() CircuitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Rejected returns how many calls were skipped while open.
func (g *GuardedCache) Rejected() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalRejected
}

func (g *GuardedCache) allowRequest() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == CircuitOpen {
		if g.now().Sub(g.lastFailureTime) < g.config.Timeout {
			g.totalRejected++
			return ErrCircuitOpen
		}
		g.transitionTo(CircuitHalfOpen)
	}
	return nil
}

func (g *GuardedCache) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		switch g.state {
		case CircuitHalfOpen:
			g.successes++
			if g.successes >= g.config.SuccessThreshold {
				g.transitionTo(CircuitClosed)
			}
		case CircuitClosed:
			g.failures = 0
		}
		return
	}

	g.lastFailureTime = g.now()
	switch g.state {
	case CircuitClosed:
		g.failures++
		if g.failures >= g.config.FailureThreshold {
			g.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		// Any failure while probing reopens the circuit
		g.transitionTo(CircuitOpen)
	}
}

func (g *GuardedCache) transitionTo(state CircuitState) {
	g.state = state
	g.failures = 0
	g.successes = 0
}
