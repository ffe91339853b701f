package postgres

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = errors.New("postgres backend requires postgres.Config")

	// Connection errors
	ErrPingFailed         = errors.New("failed to ping postgres server")
	ErrPoolCreationFailed = errors.New("failed to create connection pool")

	// Table/Schema errors
	ErrTableCreationFailed = errors.New("failed to create key/value table")
)

// Configuration error functions
func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewInvalidConnStringError(err error) error {
	return fmt.Errorf("%w: invalid connection string: %w", ErrInvalidConfig, err)
}

func NewInvalidPoolConfigError(reason string) error {
	return fmt.Errorf("%w: invalid pool configuration: %s", ErrInvalidConfig, reason)
}

// Connection error functions
func NewPingFailedError(err error) error {
	return fmt.Errorf("%w: %w", ErrPingFailed, err)
}

func NewPoolCreationFailedError(err error) error {
	return fmt.Errorf("%w: %w", ErrPoolCreationFailed, err)
}

func NewTableCreationFailedError(err error) error {
	return fmt.Errorf("%w: %w", ErrTableCreationFailed, err)
}

// Operation error functions
func NewGetFailedError(key string, err error) error {
	return fmt.Errorf("failed to get key '%s' from postgres: %w", key, err)
}

func NewSetFailedError(key string, err error) error {
	return fmt.Errorf("failed to set key '%s' in postgres: %w", key, err)
}

func NewDeleteFailedError(key string, err error) error {
	return fmt.Errorf("failed to delete key '%s' from postgres: %w", key, err)
}

func NewCheckAndSetFailedError(key string, err error) error {
	return fmt.Errorf("check-and-set operation failed for key '%s': %w", key, err)
}
