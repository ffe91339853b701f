package dynstore

import (
	"slices"
	"sync"

	"github.com/ajiwo/dynstore/backends"
)

// Constructor builds a backend for a name matched by its pattern.
type Constructor func(m Match) (backends.Backend, error)

// Entry pairs a pattern with the constructor invoked when it matches.
type Entry struct {
	Pattern     Pattern
	Constructor Constructor
}

// Registry is an ordered list of entries. Earlier entries take priority.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	sealed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an entry. Patterns are not validated here and duplicates
// are kept; a later duplicate is simply never reached.
func (r *Registry) Register(p Pattern, c Constructor) error {
	if p == nil || c == nil {
		return ErrInvalidEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}
	r.entries = append(r.entries, Entry{Pattern: p, Constructor: c})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(p Pattern, c Constructor) {
	if err := r.Register(p, c); err != nil {
		panic(err)
	}
}

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Seal rejects further registrations. It reports whether this call sealed
// the registry.
func (r *Registry) Seal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false
	}
	r.sealed = true
	return true
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
