package healthchecker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend is a test backend that can simulate failures and successes
type mockBackend struct {
	backends.Backend
	mu         sync.Mutex
	shouldFail bool
	gets       int
	lastKey    string
}

func (m *mockBackend) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	m.lastKey = key
	if m.shouldFail {
		return "", errors.New("simulated backend failure")
	}
	return "", nil
}

func (m *mockBackend) setShouldFail(shouldFail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = shouldFail
}

func (m *mockBackend) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

func TestNew_Defaults(t *testing.T) {
	hc := New(&mockBackend{}, Config{}, nil)
	assert.Equal(t, DefaultInterval, hc.config.Interval)
	assert.Equal(t, DefaultTimeout, hc.config.Timeout)
	assert.True(t, strings.HasPrefix(hc.TestKey(), "dynstore:health:"))

	other := New(&mockBackend{}, Config{}, nil)
	assert.NotEqual(t, hc.TestKey(), other.TestKey(), "generated probe keys are unique")

	fixed := New(&mockBackend{}, Config{TestKey: "probe"}, nil)
	assert.Equal(t, "probe", fixed.TestKey())
}

func TestChecker_Check(t *testing.T) {
	backend := &mockBackend{}
	var healthy atomic.Int32
	hc := New(backend, Config{TestKey: "probe"}, func() { healthy.Add(1) })

	assert.True(t, hc.Check())
	assert.Equal(t, int32(1), healthy.Load())
	assert.Equal(t, "probe", backend.lastKey)

	backend.setShouldFail(true)
	assert.False(t, hc.Check())
	assert.Equal(t, int32(1), healthy.Load(), "callback not invoked on failure")
}

func TestChecker_StartAndStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		backend := &mockBackend{}
		var healthy atomic.Int32
		hc := New(backend, Config{Interval: 50 * time.Millisecond, Timeout: 10 * time.Millisecond}, func() {
			healthy.Add(1)
		})

		hc.Start()
		hc.Start() // second start is a no-op

		time.Sleep(120 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 2, backend.getCount())
		assert.Equal(t, int32(2), healthy.Load())

		hc.Stop()
		hc.Stop()

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 2, backend.getCount(), "no probes after Stop")
	})
}

func TestChecker_Disabled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		backend := &mockBackend{}
		hc := New(backend, Config{Interval: -1}, nil)
		hc.Start()

		time.Sleep(time.Minute)
		synctest.Wait()
		assert.Equal(t, 0, backend.getCount())
		hc.Stop()
	})
}

func TestChecker_StopBeforeStart(t *testing.T) {
	backend := &mockBackend{}
	hc := New(backend, Config{Interval: time.Millisecond}, nil)
	hc.Stop()
	hc.Start()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, backend.getCount())
}
