package backends

import (
	"slices"
	"sync"
)

// BackendFactory creates a backend instance from an optional configuration.
// Each backend package documents the configuration type it accepts.
type BackendFactory func(config any) (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]BackendFactory)
)

// Register registers a backend factory under name, replacing any previous
// factory with the same name. Backend packages call it from init.
func Register(name string, factory BackendFactory) {
	if name == "" || factory == nil {
		panic(ErrInvalidFactory)
	}
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Create builds the backend registered under name.
//
// It is the fallback used by the resolver when no dynamic pattern matches a
// name, so its error for unknown names is what callers ultimately see.
func Create(name string, config any) (Backend, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, NewBackendNotFoundError(name)
	}
	return factory(config)
}

// Registered reports whether a factory exists for name.
func Registered(name string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Names returns the registered backend names in lexical order.
func Names() []string {
	factoriesMu.RLock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	factoriesMu.RUnlock()
	slices.Sort(names)
	return names
}
