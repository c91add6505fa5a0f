// Package cel recognises Affymetrix CEL version 4 files.
//
// A version 4 CEL file starts with two little-endian 32-bit integers:
// the magic number 64 followed by the version number, always 4.
//
// See http://media.affymetrix.com/support/developer/powertools/changelog/gcos-agcc/cel.html
package cel

import (
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
)

const (
	// ID is the registry identifier.
	ID = "cel"

	// Extension is the display extension.
	Extension = "cel"

	// Magic is the first header field.
	Magic uint32 = 64

	// Version is the only version this detector accepts.
	Version uint32 = 4
)

type fileHeader struct {
	Magic   uint32
	Version uint32
}

// Signature is the 8-byte v4 header: 40 00 00 00 04 00 00 00.
var Signature = domain.Signature{
	Pattern: header.MustEncodeLE(fileHeader{Magic: Magic, Version: Version}),
}

// Format describes CEL v4.
var Format = domain.Format{
	ID:          ID,
	Extension:   Extension,
	Description: "Affymetrix CEL v4",
}

// New creates a CEL v4 detector.
func New(opts ...header.Option) *header.Detector {
	return header.New(Format, Signature, opts...)
}
