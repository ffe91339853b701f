// Package failover serves requests from a primary backend and falls back to
// a secondary while the primary is unhealthy.
//
// A circuit breaker counts health errors (see backends.IsHealthError) from
// the primary. Once open, calls go to the secondary until the recovery
// timeout lets a trial call through, or a background probe finds the primary
// healthy again.
package failover

import (
	"context"
	"errors"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/ajiwo/dynstore/internal/healthchecker"
)

type Backend struct {
	primary   backends.Backend
	secondary backends.Backend
	breaker   *circuitBreaker
	checker   *healthchecker.Checker
}

// New creates the failover backend and starts probing the primary.
func New(config Config) (*Backend, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{
		primary:   config.Primary,
		secondary: config.Secondary,
		breaker:   newCircuitBreaker(config.Breaker),
	}
	b.checker = healthchecker.New(b.primary, healthchecker.Config(config.HealthCheck), b.onPrimaryHealthy)
	b.checker.Start()

	return b, nil
}

// call runs op against the primary unless the breaker is open, retrying on
// the secondary when the primary reports a health error.
func call[T any](b *Backend, op func(backends.Backend) (T, error)) (T, error) {
	if b.breaker.IsOpen() {
		return op(b.secondary)
	}
	result, err := op(b.primary)
	if b.breaker.Record(err) {
		return op(b.secondary)
	}
	return result, err
}

func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	return call(b, func(be backends.Backend) (string, error) {
		return be.Get(ctx, key)
	})
}

func (b *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	_, err := call(b, func(be backends.Backend) (struct{}, error) {
		return struct{}{}, be.Set(ctx, key, value, expiration)
	})
	return err
}

func (b *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	return call(b, func(be backends.Backend) (bool, error) {
		return be.CheckAndSet(ctx, key, oldValue, newValue, expiration)
	})
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := call(b, func(be backends.Backend) (struct{}, error) {
		return struct{}{}, be.Delete(ctx, key)
	})
	return err
}

// Close stops probing and closes both backends.
func (b *Backend) Close() error {
	b.checker.Stop()
	return errors.Join(b.primary.Close(), b.secondary.Close())
}

func (b *Backend) onPrimaryHealthy() {
	if b.breaker.State() != StateClosed {
		b.breaker.Close()
	}
}

// State returns the current breaker state.
func (b *Backend) State() State {
	return b.breaker.State()
}
