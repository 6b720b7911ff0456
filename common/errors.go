// Package common provides shared constants, types, and utilities
// used across bitvpn.
package common

import "errors"

// Sentinel errors.
// These can be checked with errors.Is() for proper error handling.
var (
	// Configuration errors.
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnknownOption    = errors.New("unknown option")
	ErrInvalidOption    = errors.New("invalid option value")
	ErrHelpShown        = errors.New("help shown")

	// Interaction errors.
	ErrMediator = errors.New("interaction failed")

	// Vault errors.
	ErrVaultLocked = errors.New("vault is locked")

	// Connection errors.
	ErrNoProfiles = errors.New("no VPN profiles available")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
