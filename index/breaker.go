package index

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// Breaker wraps an Index with per-host circuit breakers. After repeated
// failures the circuit opens and calls fail fast until the reset backoff
// elapses.
type Breaker struct {
	index    *Index
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

// NewBreaker creates a circuit breaker wrapper around an index client.
func NewBreaker(ix *Index) *Breaker {
	return &Breaker{
		index:    ix,
		breakers: make(map[string]*circuit.Breaker),
	}
}

// getBreaker returns or creates the circuit breaker for the given host.
func (b *Breaker) getBreaker(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, exists := b.breakers[host]
	b.mu.RUnlock()

	if exists {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-check after acquiring write lock
	if breaker, exists := b.breakers[host]; exists {
		return breaker
	}

	// Trips after 5 consecutive failures, resets 30s -> 5m.
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	opts := &circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	}
	breaker = circuit.NewBreakerWithOptions(opts)

	b.breakers[host] = breaker
	return breaker
}

func (b *Breaker) host() string {
	parsed, err := url.Parse(b.index.baseURL)
	if err != nil || parsed.Host == "" {
		return b.index.baseURL
	}
	return parsed.Host
}

func (b *Breaker) call(fn func() error) error {
	host := b.host()
	breaker := b.getBreaker(host)

	if !breaker.Ready() {
		return fmt.Errorf("circuit breaker open for index %s: %w", host, ErrIndexDown)
	}

	return breaker.Call(fn, 0)
}

// Project wraps Index.Project with circuit breaker logic.
func (b *Breaker) Project(ctx context.Context, name string) (*Project, error) {
	var project *Project
	err := b.call(func() error {
		var callErr error
		project, callErr = b.index.Project(ctx, name)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Versions wraps Index.Versions with circuit breaker logic.
func (b *Breaker) Versions(ctx context.Context, name string) ([]Version, error) {
	var versions []Version
	err := b.call(func() error {
		var callErr error
		versions, callErr = b.index.Versions(ctx, name)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Available wraps Index.Available with circuit breaker logic.
func (b *Breaker) Available(ctx context.Context, name string) (bool, error) {
	var available bool
	err := b.call(func() error {
		var callErr error
		available, callErr = b.index.Available(ctx, name)
		return callErr
	})
	if err != nil {
		return false, err
	}
	return available, nil
}

// BreakerState returns the current state of the circuit breakers, keyed by
// host, for health reporting.
func (b *Breaker) BreakerState() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string)
	for host, breaker := range b.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
