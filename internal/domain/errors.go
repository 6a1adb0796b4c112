package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// Request errors
	ErrUnknownFormat = errors.New("unknown output format")

	// Backend errors
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrAbandoned         = errors.New("generation abandoned")

	// Configuration errors
	ErrUnknownBackend = errors.New("unknown backend kind")
)
