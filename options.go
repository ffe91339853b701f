package dynstore

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajiwo/dynstore/backends"
	"github.com/ajiwo/dynstore/internal/observability"
)

// Option is a functional option for configuring the resolver
type Option func(*Resolver) error

// DefaultResolver handles names that match no registered pattern.
type DefaultResolver func(name string) (backends.Backend, error)

// CreateNamed is the default DefaultResolver. It builds the backend
// registered under name in the backends package with a nil configuration.
func CreateNamed(name string) (backends.Backend, error) {
	return backends.Create(name, nil)
}

// WithRegistry uses an existing registry instead of a new empty one
func WithRegistry(reg *Registry) Option {
	return func(r *Resolver) error {
		if reg == nil {
			return NewInvalidOptionError("WithRegistry", "registry is nil")
		}
		r.registry = reg
		return nil
	}
}

// WithCache replaces the default MapCache
func WithCache(cache Cache) Option {
	return func(r *Resolver) error {
		if cache == nil {
			return NewInvalidOptionError("WithCache", "cache is nil")
		}
		r.cache = cache
		return nil
	}
}

// WithDefault sets the resolver used when no pattern matches
func WithDefault(fallback DefaultResolver) Option {
	return func(r *Resolver) error {
		if fallback == nil {
			return NewInvalidOptionError("WithDefault", "default resolver is nil")
		}
		r.fallback = fallback
		return nil
	}
}

// WithLogger sets the logger. The resolver is silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) error {
		r.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder observability.Recorder) Option {
	return func(r *Resolver) error {
		if recorder == nil {
			return NewInvalidOptionError("WithMetrics", "recorder is nil")
		}
		r.metrics = recorder
		return nil
	}
}

// WithTracerProvider traces constructor calls with provider instead of the
// global tracer provider
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Resolver) error {
		if provider == nil {
			return NewInvalidOptionError("WithTracerProvider", "provider is nil")
		}
		r.tracer = observability.Tracer(provider)
		return nil
	}
}

// WithSealOnFirstResolve seals the registry on the first cache miss, ending
// the setup phase. Later Register calls return ErrSealed.
func WithSealOnFirstResolve() Option {
	return func(r *Resolver) error {
		r.sealOnResolve = true
		return nil
	}
}
