package config

import (
	"github.com/ajiwo/dynstore"
	"github.com/ajiwo/dynstore/backends"
	"github.com/ajiwo/dynstore/backends/failover"
	"github.com/ajiwo/dynstore/backends/memory"
	"github.com/ajiwo/dynstore/backends/postgres"
	"github.com/ajiwo/dynstore/backends/prefix"
	"github.com/ajiwo/dynstore/backends/redis"
	"github.com/ajiwo/dynstore/backends/sqlite"
)

const (
	KindMemory   = "memory"
	KindRedis    = "redis"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindFailover = "failover"
)

// Validate checks that the kind is registered and that a failover entry
// names both of its backends.
func (b *Backend) Validate() error {
	if b.Kind == "" {
		return newValidationError("backend is required")
	}
	if !backends.Registered(b.Kind) {
		return newValidationError("unknown backend %q", b.Kind)
	}
	if b.Kind != KindFailover {
		return nil
	}

	if b.Failover == nil || b.Failover.Primary == nil || b.Failover.Secondary == nil {
		return newValidationError("failover requires primary and secondary")
	}
	if err := b.Failover.Primary.Validate(); err != nil {
		return err
	}
	return b.Failover.Secondary.Validate()
}

// Constructor returns a dynstore.Constructor building this backend for a
// match.
func (b *Backend) Constructor() dynstore.Constructor {
	def := *b
	return func(m dynstore.Match) (backends.Backend, error) {
		return def.Build(m)
	}
}

// Build expands match references and creates the backend through the
// backends factory table, wrapping it in a key prefix when one is set.
func (b *Backend) Build(m dynstore.Match) (backends.Backend, error) {
	inner, err := b.build(m)
	if err != nil {
		return nil, err
	}
	if b.Prefix == "" {
		return inner, nil
	}

	p, err := prefix.New(inner, m.Expand(b.Prefix))
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	p.OwnsInner = true
	return p, nil
}

func (b *Backend) build(m dynstore.Match) (backends.Backend, error) {
	switch b.Kind {
	case KindMemory:
		var cfg memory.Config
		if b.Memory != nil {
			cfg.CleanupInterval = b.Memory.CleanupInterval
		}
		return backends.Create(b.Kind, cfg)

	case KindRedis:
		var cfg redis.Config
		if r := b.Redis; r != nil {
			cfg = redis.Config{
				Addr:     m.Expand(r.Addr),
				Password: m.Expand(r.Password),
				DB:       r.DB,
				PoolSize: r.PoolSize,
			}
		}
		return backends.Create(b.Kind, cfg)

	case KindPostgres:
		var cfg postgres.Config
		if p := b.Postgres; p != nil {
			cfg = postgres.Config{
				ConnString: m.Expand(p.ConnString),
				MaxConns:   p.MaxConns,
				MinConns:   p.MinConns,
				Table:      m.Expand(p.Table),
			}
		}
		return backends.Create(b.Kind, cfg)

	case KindSQLite:
		var cfg sqlite.Config
		if s := b.SQLite; s != nil {
			cfg = sqlite.Config{
				Path:        m.Expand(s.Path),
				Table:       m.Expand(s.Table),
				BusyTimeout: s.BusyTimeout,
			}
		}
		return backends.Create(b.Kind, cfg)

	case KindFailover:
		return b.buildFailover(m)

	default:
		// kinds registered by the host application take no configuration
		return backends.Create(b.Kind, nil)
	}
}

func (b *Backend) buildFailover(m dynstore.Match) (backends.Backend, error) {
	f := b.Failover
	if f == nil || f.Primary == nil || f.Secondary == nil {
		return nil, newValidationError("failover requires primary and secondary")
	}

	primary, err := f.Primary.Build(m)
	if err != nil {
		return nil, err
	}
	secondary, err := f.Secondary.Build(m)
	if err != nil {
		_ = primary.Close()
		return nil, err
	}

	fb, err := backends.Create(KindFailover, failover.Config{
		Primary:   primary,
		Secondary: secondary,
		Breaker: failover.BreakerConfig{
			FailureThreshold: f.FailureThreshold,
			RecoveryTimeout:  f.RecoveryTimeout,
		},
		HealthCheck: failover.HealthCheckConfig{
			Interval: f.HealthInterval,
			Timeout:  f.HealthTimeout,
		},
	})
	if err != nil {
		_ = primary.Close()
		_ = secondary.Close()
		return nil, err
	}
	return fb, nil
}
