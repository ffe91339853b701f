package backends

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnhealthy marks errors caused by an unreachable or failing backend, as
// opposed to errors in the request itself.
var ErrUnhealthy = errors.New("backend unhealthy")

// HealthError carries the operation that hit a connectivity problem.
type HealthError struct {
	Op    string // e.g. "redis:Get", "postgres:Ping"
	Cause error
}

func (e *HealthError) Error() string {
	if e == nil {
		return ErrUnhealthy.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", ErrUnhealthy, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUnhealthy, e.Op, e.Cause)
}

func (e *HealthError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrUnhealthy) hold for every HealthError.
func (e *HealthError) Is(target error) bool { return target == ErrUnhealthy }

// NewHealthError wraps cause as a HealthError. A nil cause yields ErrUnhealthy.
func NewHealthError(op string, cause error) error {
	if cause == nil {
		return ErrUnhealthy
	}
	return &HealthError{Op: op, Cause: cause}
}

// IsHealthError reports whether err signals an unhealthy backend.
func IsHealthError(err error) bool {
	if err == nil {
		return false
	}
	var he *HealthError
	return errors.Is(err, ErrUnhealthy) || errors.As(err, &he)
}

// MaybeConnError turns err into a HealthError when its lower-cased message
// contains one of patterns, or when it is a context deadline/cancellation.
// Any other error is returned untouched.
func MaybeConnError(op string, err error, patterns []string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewHealthError(op, err)
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return NewHealthError(op, err)
		}
	}
	return err
}
