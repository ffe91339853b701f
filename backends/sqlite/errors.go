package sqlite

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig       = errors.New("sqlite backend requires sqlite.Config")
	ErrOpenFailed          = errors.New("failed to open sqlite database")
	ErrTableCreationFailed = errors.New("failed to create key/value table")
)

// connErrorStrings flag a busy or unusable database file.
var connErrorStrings = []string{
	"database is locked",
	"sql: database is closed",
	"unable to open database file",
	"disk i/o error",
}

func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewOpenFailedError(path string, err error) error {
	return fmt.Errorf("%w %q: %w", ErrOpenFailed, path, err)
}

func NewTableCreationFailedError(err error) error {
	return fmt.Errorf("%w: %w", ErrTableCreationFailed, err)
}

func NewGetFailedError(key string, err error) error {
	return fmt.Errorf("failed to get key '%s' from sqlite: %w", key, err)
}

func NewSetFailedError(key string, err error) error {
	return fmt.Errorf("failed to set key '%s' in sqlite: %w", key, err)
}

func NewDeleteFailedError(key string, err error) error {
	return fmt.Errorf("failed to delete key '%s' from sqlite: %w", key, err)
}

func NewCheckAndSetFailedError(key string, err error) error {
	return fmt.Errorf("check-and-set operation failed for key '%s': %w", key, err)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to close sqlite database: %w", err)
}
