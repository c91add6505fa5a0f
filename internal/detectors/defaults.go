package detectors

import (
	"fmt"

	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/detectors/cel"
	"github.com/custodia-labs/sniff-cli/internal/detectors/celcc1"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
)

// Builtin returns the built-in detectors in registration order.
func Builtin(opts ...header.Option) []*header.Detector {
	return []*header.Detector{
		cel.New(opts...),
		celcc1.New(opts...),
	}
}

// RegisterDefaults registers all built-in detectors with the registry.
// Call this during application initialisation, before the registry is frozen.
func RegisterDefaults(r driven.FormatRegistry, opts ...header.Option) error {
	for _, d := range Builtin(opts...) {
		f := d.Format()
		if err := r.Register(f.ID, f.Extension, d); err != nil {
			return fmt.Errorf("registering %s: %w", f.ID, err)
		}
	}
	return nil
}
