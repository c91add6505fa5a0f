package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
)

// Ensure FormatRegistry implements the interface.
var _ driven.FormatRegistry = (*FormatRegistry)(nil)

// FormatRegistry maps format identifiers to detectors in priority order.
// It is built once in the composition root, frozen, and then shared read-only.
type FormatRegistry struct {
	mu      sync.RWMutex
	entries []driven.FormatDescriptor
	index   map[string]int
	frozen  bool
}

// NewFormatRegistry creates an empty format registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		index: make(map[string]int),
	}
}

// Register adds a format under a unique identifier.
// Identifiers must be non-empty and unique; re-registration is rejected
// with domain.ErrAlreadyExists. Registration after Freeze fails with
// domain.ErrRegistryFrozen.
func (r *FormatRegistry) Register(id, extension string, detector driven.Detector) error {
	if id == "" {
		return fmt.Errorf("empty format identifier: %w", domain.ErrInvalidInput)
	}
	if detector == nil {
		return fmt.Errorf("nil detector for %q: %w", id, domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registering %q: %w", id, domain.ErrRegistryFrozen)
	}
	if _, dup := r.index[id]; dup {
		return fmt.Errorf("format %q: %w", id, domain.ErrAlreadyExists)
	}

	format := domain.Format{ID: id, Extension: extension}
	if sized, ok := detector.(driven.HeaderSized); ok {
		format.HeaderLen = sized.HeaderLen()
	}
	if described, ok := detector.(driven.Described); ok {
		format.Description = described.Description()
	}

	r.index[id] = len(r.entries)
	r.entries = append(r.entries, driven.FormatDescriptor{Format: format, Detector: detector})
	return nil
}

// Reorder moves the listed identifiers to the front, in the given order.
// Formats not listed keep their relative registration order after them.
func (r *FormatRegistry) Reorder(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("reordering: %w", domain.ErrRegistryFrozen)
	}

	seen := make(map[string]bool, len(ids))
	ordered := make([]driven.FormatDescriptor, 0, len(r.entries))
	for _, id := range ids {
		i, ok := r.index[id]
		if !ok {
			return fmt.Errorf("format %q: %w", id, domain.ErrNotFound)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, r.entries[i])
	}
	for _, e := range r.entries {
		if !seen[e.Format.ID] {
			ordered = append(ordered, e)
		}
	}

	r.entries = ordered
	for i, e := range r.entries {
		r.index[e.Format.ID] = i
	}
	return nil
}

// Freeze makes the registry read-only.
func (r *FormatRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *FormatRegistry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the descriptor registered under id.
func (r *FormatRegistry) Lookup(id string) (driven.FormatDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return driven.FormatDescriptor{}, false
	}
	return r.entries[i], true
}

// Has returns true if a format with the given identifier is registered.
func (r *FormatRegistry) Has(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// All returns every descriptor in priority order.
func (r *FormatRegistry) All() []driven.FormatDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]driven.FormatDescriptor, len(r.entries))
	copy(result, r.entries)
	return result
}

// Formats returns the registered formats in priority order.
func (r *FormatRegistry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Format, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.Format)
	}
	return result
}

// IDs returns the registered identifiers in priority order.
func (r *FormatRegistry) IDs() []string {
	formats := r.Formats()
	ids := make([]string, len(formats))
	for i, f := range formats {
		ids[i] = f.ID
	}
	return ids
}
