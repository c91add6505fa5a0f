package domain

import "bytes"

// Format describes a binary data format that can be recognised from its header.
type Format struct {
	// ID is the unique short identifier (e.g., "cel").
	ID string

	// Extension is the display extension assigned to recognised files.
	Extension string

	// Description is a human-readable name for the format.
	Description string

	// HeaderLen is the number of leading bytes the detector inspects.
	// Zero when the detector does not report it.
	HeaderLen int
}

// String returns the format identifier.
func (f Format) String() string {
	return f.ID
}

// Signature is a fixed byte pattern expected at a fixed offset.
type Signature struct {
	// Offset is the position of the first pattern byte.
	Offset int

	// Pattern is the expected byte sequence.
	Pattern []byte
}

// Len returns the number of bytes that must be read to test the signature.
func (s Signature) Len() int {
	return s.Offset + len(s.Pattern)
}

// Match reports whether header carries the pattern at the signature offset.
// A header shorter than Len never matches.
func (s Signature) Match(header []byte) bool {
	if len(s.Pattern) == 0 || len(header) < s.Len() {
		return false
	}
	return bytes.Equal(header[s.Offset:s.Len()], s.Pattern)
}

// Outcome is the result of probing one file against one signature.
type Outcome int

const (
	// OutcomeNoMatch indicates the header was read and differs from the signature.
	OutcomeNoMatch Outcome = iota

	// OutcomeMatch indicates every signature byte matched.
	OutcomeMatch

	// OutcomeShortHeader indicates the file ended before the signature did.
	OutcomeShortHeader
)

// Matched collapses the outcome to the boolean detector contract.
func (o Outcome) Matched() bool {
	return o == OutcomeMatch
}

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeMatch:
		return "match"
	case OutcomeShortHeader:
		return "short_header"
	default:
		return unknownDescription
	}
}

const unknownDescription = "unknown"
