package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal gateway
var (
	// Local validation errors (never reach the network)
	ErrMissingCredentials = errors.New("code and password are required")

	// Fault-class errors: upstream communication failures
	ErrSystemUnavailable   = errors.New("school system unavailable")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")

	// Business outcomes: well-formed but rejected
	ErrAccessDenied = errors.New("access denied")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
