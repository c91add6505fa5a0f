package driven

import "github.com/custodia-labs/sniff-cli/internal/core/domain"

// FormatRegistry maps format identifiers to detectors.
// It keeps registration order, which is the order classification tries detectors.
// Registration happens once at startup; the registry is read-only after Freeze.
type FormatRegistry interface {
	// Register adds a format under a unique identifier.
	Register(id, extension string, detector Detector) error

	// Lookup returns the descriptor registered under id.
	Lookup(id string) (FormatDescriptor, bool)

	// All returns every descriptor in priority order.
	All() []FormatDescriptor

	// Formats returns the registered formats in priority order.
	Formats() []domain.Format
}
