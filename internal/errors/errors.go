package errors

import (
	"errors"
	"fmt"
)

// Common error types for the agency console gateway
var (
	// Authentication errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionNotFound  = errors.New("session not found")

	// Email-linking errors
	ErrProviderNotConfigured = errors.New("email provider is not configured")
	ErrUnknownProvider       = errors.New("unknown email provider")
	ErrStateMismatch         = errors.New("oauth state mismatch")
	ErrFlowNotFound          = errors.New("no linking flow in progress")
	ErrFlowExpired           = errors.New("linking flow expired")
	ErrMissingRefreshToken   = errors.New("no refresh token returned; revoke the app's access and try again")

	// Validation errors
	ErrValidation = errors.New("validation failed")

	// Core API errors
	ErrCoreAPIUnavailable = errors.New("core API unavailable")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
