// Package prefix confines a backend to a key namespace.
//
// Several resolved storages can share one physical backend (one Redis
// database, one SQLite table) while keeping their keys apart:
//
//	shared := memory.New()
//	foo, _ := prefix.New(shared, "foo") // keys stored as "foo:<key>"
//	bar, _ := prefix.New(shared, "bar")
package prefix

import (
	"context"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/ajiwo/dynstore/utils"
	"github.com/ajiwo/dynstore/utils/builderpool"
)

const separator = ":"

type Backend struct {
	inner     backends.Backend
	namespace string
	prefix    string // namespace + separator

	// OwnsInner makes Close close the wrapped backend too.
	OwnsInner bool
}

// New wraps inner so every key is stored as namespace + ":" + key.
func New(inner backends.Backend, namespace string) (*Backend, error) {
	if inner == nil {
		return nil, backends.ErrInvalidConfig
	}
	if err := utils.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	return &Backend{
		inner:     inner,
		namespace: namespace,
		prefix:    namespace + separator,
	}, nil
}

func (b *Backend) Namespace() string { return b.namespace }

// Inner returns the wrapped backend.
func (b *Backend) Inner() backends.Backend { return b.inner }

func (b *Backend) key(key string) string {
	return builderpool.Join(b.prefix, key)
}

func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	return b.inner.Get(ctx, b.key(key))
}

func (b *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return b.inner.Set(ctx, b.key(key), value, expiration)
}

func (b *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	return b.inner.CheckAndSet(ctx, b.key(key), oldValue, newValue, expiration)
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.inner.Delete(ctx, b.key(key))
}

// Close closes the wrapped backend only when OwnsInner is set; a shared
// backend stays open for its other namespaces.
func (b *Backend) Close() error {
	if b.OwnsInner {
		return b.inner.Close()
	}
	return nil
}
