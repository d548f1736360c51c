package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrMissingBase indicates the base configuration file is absent.
	// This is recoverable: resolution yields a near-empty snapshot.
	ErrMissingBase = errors.New("base configuration file not found")
)
