package backends

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendNotFound is returned by Create when no factory is registered under the requested name.
	ErrBackendNotFound = errors.New("backend not found")

	// ErrInvalidConfig is returned when a factory receives a configuration it cannot use.
	ErrInvalidConfig = errors.New("invalid backend configuration")

	// ErrInvalidFactory is returned when registering an empty name or a nil factory.
	ErrInvalidFactory = errors.New("invalid backend factory")
)

// NewBackendNotFoundError reports an unknown backend name while keeping
// errors.Is(err, ErrBackendNotFound) true.
func NewBackendNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrBackendNotFound, name)
}

// NewInvalidConfigError reports a configuration of the wrong type for the named backend.
func NewInvalidConfigError(name string, config any) error {
	return fmt.Errorf("%w: %s backend cannot use config of type %T", ErrInvalidConfig, name, config)
}
