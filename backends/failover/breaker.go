package failover

import (
	"sync/atomic"
	"time"

	"github.com/ajiwo/dynstore/backends"
)

// State is the circuit breaker state.
type State int32

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for circuit breaker
type BreakerConfig struct {
	FailureThreshold int32         // Consecutive health failures before tripping
	RecoveryTimeout  time.Duration // Time spent open before the primary is tried again
}

// circuitBreaker counts health errors of the primary. Only errors classified
// by backends.IsHealthError count; a missing key or a rejected
// compare-and-swap never trips it.
type circuitBreaker struct {
	config   BreakerConfig // read-only after construction
	state    atomic.Int32
	failures atomic.Int32
	openedAt atomic.Int64 // unix nanoseconds
}

func newCircuitBreaker(config BreakerConfig) *circuitBreaker {
	return &circuitBreaker{config: config}
}

// Record feeds the outcome of a primary call and reports whether the caller
// should retry on the secondary.
func (cb *circuitBreaker) Record(err error) bool {
	if !backends.IsHealthError(err) {
		if cb.State() == StateHalfOpen {
			cb.Close()
		} else {
			cb.failures.Store(0)
		}
		return false
	}

	if cb.State() == StateHalfOpen || cb.failures.Add(1) >= cb.config.FailureThreshold {
		cb.Open()
	}
	return true
}

// IsOpen reports whether calls should bypass the primary. An open breaker
// whose recovery timeout elapsed moves to half-open and lets one call through.
func (cb *circuitBreaker) IsOpen() bool {
	if State(cb.state.Load()) != StateOpen {
		return false
	}
	if time.Since(time.Unix(0, cb.openedAt.Load())) < cb.config.RecoveryTimeout {
		return true
	}
	return !cb.state.CompareAndSwap(int32(StateOpen), int32(StateHalfOpen))
}

func (cb *circuitBreaker) Open() {
	cb.openedAt.Store(time.Now().UnixNano())
	cb.state.Store(int32(StateOpen))
}

func (cb *circuitBreaker) Close() {
	cb.failures.Store(0)
	cb.state.Store(int32(StateClosed))
}

func (cb *circuitBreaker) State() State {
	return State(cb.state.Load())
}

func (cb *circuitBreaker) Failures() int32 {
	return cb.failures.Load()
}
