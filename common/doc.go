// Package common provides shared constants, utilities, and logging
// used throughout bitvpn.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: binary names, file names, and timeouts
//   - Errors: Sentinel errors for consistent error handling across packages
//   - Logger: Structured logging backed by zap, with optional file output
//   - Utils: Path helpers for the config directory and "~" expansion
//
// # Usage
//
//	// Use logger
//	common.LogDebug("Fetching %s for %s", field, item)
//
//	// Check errors
//	if errors.Is(err, common.ErrPermissionDenied) {
//	    // Handle unreadable cache
//	}
package common
