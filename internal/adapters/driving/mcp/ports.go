package mcp

import (
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Classifier identifies file formats.
	Classifier driving.ClassifierService

	// History exposes recorded classifications. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Classifier == nil {
		return ErrMissingClassifier
	}
	return nil
}
