// Package celcc1 recognises Affymetrix Command Console version 1 (Calvin) CEL files.
//
// A Command Console file starts with two unsigned bytes: the magic number 59
// followed by the version number, always 1.
//
// See http://media.affymetrix.com/support/developer/powertools/changelog/gcos-agcc/generic.html
package celcc1

import (
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
)

const (
	// ID is the registry identifier.
	ID = "celcc1"

	// Extension is the display extension.
	Extension = "celcc1"

	// Magic is the first header byte.
	Magic uint8 = 59

	// Version is the only version this detector accepts.
	Version uint8 = 1
)

// Signature is the 2-byte Command Console header: 3B 01.
var Signature = domain.Signature{
	Pattern: header.MustEncodeLE(Magic, Version),
}

// Format describes Command Console v1.
var Format = domain.Format{
	ID:          ID,
	Extension:   Extension,
	Description: "Affymetrix Command Console v1 CEL",
}

// New creates a Command Console v1 detector.
func New(opts ...header.Option) *header.Detector {
	return header.New(Format, Signature, opts...)
}
