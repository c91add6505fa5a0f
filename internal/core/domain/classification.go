package domain

import "time"

// Classification is the result of running the registered detectors over one file.
type Classification struct {
	// ID uniquely identifies this classification record.
	ID string

	// Path is the classified file.
	Path string

	// FormatID is the identifier of the first matching format.
	// Empty when no detector matched.
	FormatID string

	// Extension is the display extension of the matched format.
	Extension string

	// Size is the file size in bytes at classification time.
	// For a stream it is the number of bytes read from the stream.
	Size int64

	// ModTime is the file modification time at classification time.
	ModTime time.Time

	// Probed lists the format identifiers tested, in order, up to and including the match.
	Probed []string

	// ClassifiedAt is when the classification ran.
	ClassifiedAt time.Time
}

// Recognised returns true if a detector matched the file.
func (c *Classification) Recognised() bool {
	return c.FormatID != ""
}

// Label returns the format identifier, or "unrecognised".
func (c *Classification) Label() string {
	if c.Recognised() {
		return c.FormatID
	}
	return "unrecognised"
}
