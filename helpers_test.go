package dynstore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ajiwo/dynstore/backends"
)

// stubBackend is a backend with identity only.
type stubBackend struct {
	label string
}

func (s *stubBackend) Get(context.Context, string) (string, error)              { return "", nil }
func (s *stubBackend) Set(context.Context, string, string, time.Duration) error { return nil }
func (s *stubBackend) CheckAndSet(context.Context, string, string, string, time.Duration) (bool, error) {
	return false, nil
}
func (s *stubBackend) Delete(context.Context, string) error { return nil }
func (s *stubBackend) Close() error                         { return nil }

// countingConstructor returns a constructor building a new stubBackend per
// call and a pointer to its call count.
func countingConstructor(label string) (Constructor, *atomic.Int32) {
	var calls atomic.Int32
	return func(m Match) (backends.Backend, error) {
		calls.Add(1)
		return &stubBackend{label: label + ":" + m.Name}, nil
	}, &calls
}

// recordingFallback returns a default resolver that records the names it receives.
type recordingFallback struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *recordingFallback) resolve(name string) (backends.Backend, error) {
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &stubBackend{label: "default:" + name}, nil
}

func (f *recordingFallback) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

// countingRecorder counts recorder calls.
type countingRecorder struct {
	hits, misses, fallbacks, constructions, constructErrors atomic.Int32
}

func (r *countingRecorder) RecordHit(context.Context)      { r.hits.Add(1) }
func (r *countingRecorder) RecordMiss(context.Context)     { r.misses.Add(1) }
func (r *countingRecorder) RecordFallback(context.Context) { r.fallbacks.Add(1) }
func (r *countingRecorder) RecordConstruction(_ context.Context, _ string, _ time.Duration, err error) {
	r.constructions.Add(1)
	if err != nil {
		r.constructErrors.Add(1)
	}
}
