// Package healthchecker periodically probes a backend and reports recovery.
package healthchecker

import (
	"context"
	"sync"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/google/uuid"
)

// Checker probes a backend with a Get on TestKey and calls onHealthy after
// every successful probe.
type Checker struct {
	backend   backends.Backend
	config    Config
	onHealthy func()

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// New creates a checker. It does not probe until Start is called.
func New(backend backends.Backend, config Config, onHealthy func()) *Checker {
	config = config.withDefaults()
	if config.TestKey == "" {
		config.TestKey = "dynstore:health:" + uuid.NewString()
	}
	return &Checker{
		backend:   backend,
		config:    config,
		onHealthy: onHealthy,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// TestKey returns the key read by each probe.
func (h *Checker) TestKey() string { return h.config.TestKey }

// Start begins background probing. It is a no-op when probing is disabled or
// the checker was already started.
func (h *Checker) Start() {
	if h.config.Interval < 0 {
		return
	}
	h.startOnce.Do(func() {
		go h.run()
	})
}

// Stop ends probing and waits for an in-flight probe to finish. It is safe
// to call more than once, and before Start.
func (h *Checker) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	started := true
	h.startOnce.Do(func() { started = false })
	if started && h.config.Interval >= 0 {
		<-h.done
	}
}

func (h *Checker) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Check()
		case <-h.stop:
			return
		}
	}
}

// Check runs a single probe and reports whether the backend answered.
func (h *Checker) Check() bool {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if _, err := h.backend.Get(ctx, h.config.TestKey); err != nil {
		return false
	}
	if h.onHealthy != nil {
		h.onHealthy()
	}
	return true
}
