package domain

import "errors"

// Domain errors represent classification failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested format or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a format identifier is already registered.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRegistryFrozen indicates a registration was attempted after startup.
	// The registry is read-only once classification may have begun.
	ErrRegistryFrozen = errors.New("registry frozen")

	// Detection Errors.

	// ErrUnreadable indicates the file could not be opened or read.
	// It is never used to signal that a file is simply not in a format.
	ErrUnreadable = errors.New("file unreadable")

	// ErrShortHeader indicates fewer bytes were available than a signature needs.
	// Detectors resolve it locally to a non-match.
	ErrShortHeader = errors.New("header too short")
)
