package redis

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig    = errors.New("redis backend requires redis.Config")
	ErrConnectionFailed = errors.New("failed to connect to redis")
)

func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewConnectionFailedError(addr string, err error) error {
	return fmt.Errorf("%w at %s: %w", ErrConnectionFailed, addr, err)
}

// Operation error functions
func NewGetFailedError(key string, err error) error {
	return fmt.Errorf("failed to get key '%s': %w", key, err)
}

func NewSetFailedError(key string, err error) error {
	return fmt.Errorf("failed to set key '%s': %w", key, err)
}

func NewDeleteFailedError(key string, err error) error {
	return fmt.Errorf("failed to delete key '%s': %w", key, err)
}

func NewCheckAndSetFailedError(key string, err error) error {
	return fmt.Errorf("check-and-set operation failed for key '%s': %w", key, err)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to close redis connection: %w", err)
}
