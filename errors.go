package dynstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry is returned when registering a nil pattern or constructor.
	ErrInvalidEntry = errors.New("invalid registry entry")

	// ErrSealed is returned when registering into a sealed registry.
	ErrSealed = errors.New("registry is sealed")

	// ErrInvalidPattern is matched by every *PatternError.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidOption is returned by New when an option receives an unusable value.
	ErrInvalidOption = errors.New("invalid option")
)

// PatternError reports a pattern that could not be evaluated against a name.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidPattern, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// NewPatternError wraps err as a *PatternError for pattern.
func NewPatternError(pattern string, err error) error {
	return &PatternError{Pattern: pattern, Err: err}
}

// NewInvalidOptionError reports a bad value passed to an option.
func NewInvalidOptionError(option, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidOption, option, reason)
}
