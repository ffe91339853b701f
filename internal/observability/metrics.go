// Package observability records resolver metrics with OpenTelemetry.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records resolver activity.
// Use NewRecorder for OTel metrics or Noop{} when disabled.
type Recorder interface {
	// RecordHit records a resolution served from the cache.
	RecordHit(ctx context.Context)

	// RecordMiss records a resolution that had to scan the patterns.
	RecordMiss(ctx context.Context)

	// RecordFallback records a resolution delegated to the default resolver.
	RecordFallback(ctx context.Context)

	// RecordConstruction records a constructor call for the matching pattern.
	RecordConstruction(ctx context.Context, pattern string, duration time.Duration, err error)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordHit(context.Context)                                        {}
func (Noop) RecordMiss(context.Context)                                       {}
func (Noop) RecordFallback(context.Context)                                   {}
func (Noop) RecordConstruction(context.Context, string, time.Duration, error) {}

const meterName = "github.com/ajiwo/dynstore"

type otelRecorder struct {
	hits             metric.Int64Counter
	misses           metric.Int64Counter
	fallbacks        metric.Int64Counter
	constructions    metric.Int64Counter
	constructErrors  metric.Int64Counter
	constructLatency metric.Float64Histogram
}

// NewRecorder creates a Recorder on provider, or on the global provider when
// provider is nil.
func NewRecorder(provider metric.MeterProvider) (Recorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	var (
		r   otelRecorder
		err error
	)
	if r.hits, err = meter.Int64Counter("dynstore.resolve.hits",
		metric.WithDescription("Resolutions served from the cache"),
	); err != nil {
		return nil, err
	}
	if r.misses, err = meter.Int64Counter("dynstore.resolve.misses",
		metric.WithDescription("Resolutions that scanned the registered patterns"),
	); err != nil {
		return nil, err
	}
	if r.fallbacks, err = meter.Int64Counter("dynstore.resolve.fallbacks",
		metric.WithDescription("Resolutions delegated to the default resolver"),
	); err != nil {
		return nil, err
	}
	if r.constructions, err = meter.Int64Counter("dynstore.construct.calls",
		metric.WithDescription("Constructor invocations"),
	); err != nil {
		return nil, err
	}
	if r.constructErrors, err = meter.Int64Counter("dynstore.construct.errors",
		metric.WithDescription("Constructor invocations that returned an error"),
	); err != nil {
		return nil, err
	}
	if r.constructLatency, err = meter.Float64Histogram("dynstore.construct.latency_ms",
		metric.WithDescription("Constructor latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return &r, nil
}

var (
	defaultRecorder     Recorder
	defaultRecorderOnce sync.Once
)

// Default returns a process-wide Recorder bound to the global meter provider,
// degrading to Noop when the instruments cannot be created.
func Default() Recorder {
	defaultRecorderOnce.Do(func() {
		r, err := NewRecorder(nil)
		if err != nil {
			log.Warn().Err(err).Msg("metrics initialization failed, using no-op recorder")
			r = Noop{}
		}
		defaultRecorder = r
	})
	return defaultRecorder
}

func (r *otelRecorder) RecordHit(ctx context.Context) {
	r.hits.Add(ctx, 1)
}

func (r *otelRecorder) RecordMiss(ctx context.Context) {
	r.misses.Add(ctx, 1)
}

func (r *otelRecorder) RecordFallback(ctx context.Context) {
	r.fallbacks.Add(ctx, 1)
}

func (r *otelRecorder) RecordConstruction(ctx context.Context, pattern string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("pattern", pattern))

	r.constructions.Add(ctx, 1, attrs)
	r.constructLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		r.constructErrors.Add(ctx, 1, attrs)
	}
}
