package memory

import (
	"context"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often expired keys are swept when Config
// leaves CleanupInterval at zero.
const DefaultCleanupInterval = 10 * time.Minute

// Config configures the in-memory backend.
type Config struct {
	// CleanupInterval sets the period of the expired key sweep. Zero means
	// DefaultCleanupInterval, a negative value disables the sweep.
	CleanupInterval time.Duration
}

type Backend struct {
	locks  sync.Map // map[string]*sync.Mutex
	values sync.Map // map[string]memoryValue

	stop      chan struct{}
	closeOnce sync.Once
}

type memoryValue struct {
	value      string
	expiration time.Time // zero means no expiration
}

func (v memoryValue) expired(now time.Time) bool {
	return !v.expiration.IsZero() && now.After(v.expiration)
}

// New initializes a new in-memory storage instance with the default cleanup interval.
func New() *Backend {
	b, _ := NewWithConfig(Config{})
	return b
}

// NewWithConfig initializes a new in-memory storage instance.
func NewWithConfig(config Config) (*Backend, error) {
	interval := config.CleanupInterval
	if interval == 0 {
		interval = DefaultCleanupInterval
	}

	b := &Backend{stop: make(chan struct{})}
	if interval > 0 {
		go b.sweep(interval)
	}
	return b, nil
}

// getLock returns a mutex for the given key
func (m *Backend) getLock(key string) *sync.Mutex {
	actual, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// load returns the live value for key, dropping it when expired. Callers hold the key lock.
func (m *Backend) load(key string, now time.Time) (memoryValue, bool) {
	valAny, ok := m.values.Load(key)
	if !ok {
		return memoryValue{}, false
	}
	val := valAny.(memoryValue)
	if val.expired(now) {
		m.values.Delete(key)
		return memoryValue{}, false
	}
	return val, true
}

func (m *Backend) store(key, value string, expiration time.Duration, now time.Time) {
	val := memoryValue{value: value}
	if expiration > 0 {
		val.expiration = now.Add(expiration)
	}
	m.values.Store(key, val)
}

func (m *Backend) Get(ctx context.Context, key string) (string, error) {
	lock := m.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	val, ok := m.load(key, time.Now())
	if !ok {
		return "", nil
	}
	return val.value, nil
}

func (m *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	lock := m.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	m.store(key, value, expiration, time.Now())
	return nil
}

func (m *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	lock := m.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	current, exists := m.load(key, now)

	if oldValue == "" {
		if exists {
			return false, nil
		}
	} else if !exists || current.value != oldValue {
		return false, nil
	}

	m.store(key, newValue, expiration, now)
	return true, nil
}

func (m *Backend) Delete(ctx context.Context, key string) error {
	lock := m.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	m.values.Delete(key)
	return nil
}

// Close stops the sweeper and drops every stored value.
func (m *Backend) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	m.values.Clear()
	m.locks.Clear()
	return nil
}

func (m *Backend) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *Backend) cleanup() {
	now := time.Now()
	var expired []string

	m.values.Range(func(key, valAny any) bool {
		if valAny.(memoryValue).expired(now) {
			expired = append(expired, key.(string))
		}
		return true
	})

	for _, key := range expired {
		lock := m.getLock(key)
		lock.Lock()
		m.load(key, now)
		lock.Unlock()
	}
}
