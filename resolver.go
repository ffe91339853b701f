package dynstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ajiwo/dynstore/backends"
	"github.com/ajiwo/dynstore/internal/observability"
)

// Resolver resolves names to backends using a Registry, a Cache and a
// DefaultResolver. It is safe for concurrent use.
type Resolver struct {
	registry      *Registry
	cache         Cache
	fallback      DefaultResolver
	logger        zerolog.Logger
	metrics       observability.Recorder
	tracer        trace.Tracer
	sealOnResolve bool

	group singleflight.Group
}

// matchResult is the outcome of scanning the registry for one name.
// found is false when no pattern matched.
type matchResult struct {
	backend backends.Backend
	pattern string
	found   bool
}

// New creates a resolver with functional options
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		registry: NewRegistry(),
		cache:    NewMapCache(),
		fallback: CreateNamed,
		logger:   zerolog.Nop(),
		metrics:  observability.Noop{},
		tracer:   observability.Tracer(nil),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return r, nil
}

// Registry returns the registry the resolver scans.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Register appends an entry to the resolver's registry.
func (r *Resolver) Register(p Pattern, c Constructor) error {
	return r.registry.Register(p, c)
}

// Resolve returns the backend for name.
//
// A cached backend is returned as is. Otherwise the first registered pattern
// matching name builds the backend, which is cached under name. Constructor
// errors are returned unchanged and nothing is cached. When no pattern
// matches, the default resolver's result is returned without caching.
//
// Concurrent first resolutions of the same name share a single constructor
// call.
func (r *Resolver) Resolve(name string) (backends.Backend, error) {
	ctx := context.Background()

	if b, ok := r.cache.Load(name); ok {
		r.metrics.RecordHit(ctx)
		r.logger.Debug().Str("name", name).Msg("resolved from cache")
		return b, nil
	}
	r.metrics.RecordMiss(ctx)

	if r.sealOnResolve && r.registry.Seal() {
		r.logger.Debug().Int("entries", r.registry.Len()).Msg("registry sealed")
	}

	v, err, shared := r.group.Do(name, func() (any, error) {
		return r.match(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	res := v.(matchResult)
	if res.found {
		r.logger.Debug().
			Str("name", name).
			Str("pattern", res.pattern).
			Bool("shared", shared).
			Msg("resolved by pattern")
		return res.backend, nil
	}

	r.metrics.RecordFallback(ctx)
	r.logger.Debug().Str("name", name).Msg("no pattern matched, delegating to default resolver")
	return r.fallback(name)
}

// match scans the registry and constructs the backend for the first match.
func (r *Resolver) match(ctx context.Context, name string) (matchResult, error) {
	// another flight may have finished between the cache miss and this call
	if b, ok := r.cache.Load(name); ok {
		return matchResult{backend: b, pattern: "(cached)", found: true}, nil
	}

	for _, e := range r.registry.Entries() {
		m, ok, err := e.Pattern.Match(name)
		if err != nil {
			r.logger.Error().Err(err).Str("name", name).Str("pattern", e.Pattern.String()).Msg("pattern evaluation failed")
			return matchResult{}, err
		}
		if !ok {
			continue
		}

		spanCtx, span := observability.StartConstructSpan(ctx, r.tracer, name, e.Pattern.String())
		start := time.Now()
		b, err := e.Constructor(m)
		r.metrics.RecordConstruction(spanCtx, e.Pattern.String(), time.Since(start), err)
		observability.EndSpanWithError(span, err)
		if err != nil {
			r.logger.Error().Err(err).Str("name", name).Str("pattern", e.Pattern.String()).Msg("backend construction failed")
			return matchResult{}, err
		}

		r.cache.Store(name, b)
		return matchResult{backend: b, pattern: e.Pattern.String(), found: true}, nil
	}

	return matchResult{}, nil
}

// Route returns the first pattern matching name without constructing
// anything. ok is false when name would be handed to the default resolver.
func (r *Resolver) Route(name string) (pattern Pattern, ok bool, err error) {
	for _, e := range r.registry.Entries() {
		_, ok, err := e.Pattern.Match(name)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return e.Pattern, true, nil
		}
	}
	return nil, false, nil
}

// Cached reports whether a backend is cached under name.
func (r *Resolver) Cached(name string) bool {
	_, ok := r.cache.Load(name)
	return ok
}
