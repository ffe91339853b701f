package backends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFactories swaps in an empty factory table for the duration of the test.
func resetFactories(t *testing.T) {
	t.Helper()
	factoriesMu.Lock()
	saved := factories
	factories = make(map[string]BackendFactory)
	factoriesMu.Unlock()
	t.Cleanup(func() {
		factoriesMu.Lock()
		factories = saved
		factoriesMu.Unlock()
	})
}

func TestRegister(t *testing.T) {
	resetFactories(t)

	Register("test", func(config any) (Backend, error) {
		return &mockBackend{}, nil
	})
	assert.True(t, Registered("test"))

	// Registering the same name again replaces the factory
	replacement := &mockBackend{name: "new"}
	Register("test", func(config any) (Backend, error) {
		return replacement, nil
	})

	backend, err := Create("test", nil)
	require.NoError(t, err)
	assert.Same(t, replacement, backend)

	t.Run("empty name panics", func(t *testing.T) {
		assert.PanicsWithValue(t, ErrInvalidFactory, func() {
			Register("", func(config any) (Backend, error) { return nil, nil })
		})
	})

	t.Run("nil factory panics", func(t *testing.T) {
		assert.PanicsWithValue(t, ErrInvalidFactory, func() {
			Register("nil", nil)
		})
	})
}

func TestCreate(t *testing.T) {
	resetFactories(t)

	backend, err := Create("nonexistent", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendNotFound)
	assert.Contains(t, err.Error(), `"nonexistent"`)
	assert.Nil(t, backend)

	type kvConfig struct{ Addr string }

	expected := &mockBackend{name: "kv"}
	Register("kv", func(config any) (Backend, error) {
		cfg, ok := config.(kvConfig)
		if !ok {
			return nil, NewInvalidConfigError("kv", config)
		}
		if cfg.Addr == "" {
			return nil, ErrInvalidConfig
		}
		return expected, nil
	})

	t.Run("valid config", func(t *testing.T) {
		backend, err := Create("kv", kvConfig{Addr: "localhost:1"})
		require.NoError(t, err)
		assert.Same(t, expected, backend)
	})

	t.Run("wrong config type", func(t *testing.T) {
		backend, err := Create("kv", "some config")
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "string")
		assert.Nil(t, backend)
	})

	t.Run("missing field", func(t *testing.T) {
		backend, err := Create("kv", kvConfig{})
		assert.Equal(t, ErrInvalidConfig, err)
		assert.Nil(t, backend)
	})

	t.Run("factory error is returned as is", func(t *testing.T) {
		factoryErr := errors.New("test error")
		Register("error", func(config any) (Backend, error) {
			return nil, factoryErr
		})
		backend, err := Create("error", nil)
		assert.Same(t, factoryErr, err)
		assert.Nil(t, backend)
	})
}

func TestNames(t *testing.T) {
	resetFactories(t)
	assert.Empty(t, Names())

	for _, name := range []string{"redis", "memory", "postgres"} {
		Register(name, func(config any) (Backend, error) { return &mockBackend{}, nil })
	}
	assert.Equal(t, []string{"memory", "postgres", "redis"}, Names())
}

// mockBackend is a simple implementation for testing
type mockBackend struct {
	name string
}

func (m *mockBackend) Get(ctx context.Context, key string) (string, error) {
	return "mock-value", nil
}

func (m *mockBackend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return nil
}

func (m *mockBackend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	return true, nil
}

func (m *mockBackend) Delete(ctx context.Context, key string) error {
	return nil
}

func (m *mockBackend) Close() error {
	return nil
}
