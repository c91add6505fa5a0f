package driven

import "github.com/custodia-labs/sniff-cli/internal/core/domain"

// Detector tests whether a file carries one format's signature.
// Implementations are stateless and safe for concurrent use.
type Detector interface {
	// Matches reports whether the file at path is in the detector's format.
	// A file shorter than the signature is a non-match, not an error.
	// Open and read failures are returned as errors wrapping domain.ErrUnreadable.
	Matches(path string) (bool, error)
}

// DetectorFunc adapts an ordinary function to the Detector interface.
type DetectorFunc func(path string) (bool, error)

// Matches calls f(path).
func (f DetectorFunc) Matches(path string) (bool, error) {
	return f(path)
}

// HeaderSized is implemented by detectors that read a fixed-size header.
// The registry records the size on the registered format.
type HeaderSized interface {
	HeaderLen() int
}

// Described is implemented by detectors that carry a human-readable format name.
type Described interface {
	Description() string
}

// ByteMatcher is implemented by detectors that can test an in-memory header.
// Stream sniffers use it to classify uploads before they reach disk.
type ByteMatcher interface {
	HeaderSized
	MatchBytes(header []byte) bool
}

// FormatDescriptor is a registered format and its detector.
type FormatDescriptor struct {
	Format   domain.Format
	Detector Detector
}
