package failover

import (
	"errors"
	"time"

	"github.com/ajiwo/dynstore/backends"
)

const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
)

var (
	ErrInvalidConfig     = errors.New("failover backend requires failover.Config")
	ErrPrimaryRequired   = errors.New("failover: primary backend is required")
	ErrSecondaryRequired = errors.New("failover: secondary backend is required")
)

// HealthCheckConfig controls background probing of the primary.
type HealthCheckConfig struct {
	Interval time.Duration // zero means 10s, negative disables probing
	Timeout  time.Duration // zero means 2s
	TestKey  string        // empty means a random key
}

// Config holds configuration for the failover backend
type Config struct {
	Primary     backends.Backend
	Secondary   backends.Backend
	Breaker     BreakerConfig
	HealthCheck HealthCheckConfig
}

// SetDefaults fills zero breaker values.
func (c *Config) SetDefaults() {
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = DefaultFailureThreshold
	}
	if c.Breaker.RecoveryTimeout == 0 {
		c.Breaker.RecoveryTimeout = DefaultRecoveryTimeout
	}
}

// Validate validates the failover backend configuration
func (c *Config) Validate() error {
	if c.Primary == nil {
		return ErrPrimaryRequired
	}
	if c.Secondary == nil {
		return ErrSecondaryRequired
	}
	if c.Breaker.FailureThreshold < 0 {
		return errors.New("failover: failure threshold cannot be negative")
	}
	if c.Breaker.RecoveryTimeout < 0 {
		return errors.New("failover: recovery timeout cannot be negative")
	}
	if c.HealthCheck.Interval > 0 && c.HealthCheck.Timeout >= c.HealthCheck.Interval {
		return errors.New("failover: health check timeout must be less than interval")
	}
	return nil
}
