package backends

import (
	"context"
	"time"
)

// Backend is a key/value storage handed out by the resolver.
//
// Values are plain strings. Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value stored under key, or "" when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero expiration keeps the key until it is
	// deleted.
	Set(ctx context.Context, key, value string, expiration time.Duration) error

	// CheckAndSet atomically replaces the value of key with newValue when the
	// current value equals oldValue. An empty oldValue means "only set if the
	// key does not exist". Expired keys count as absent.
	CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
