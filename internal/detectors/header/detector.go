package header

import (
	"errors"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/logger"
)

// Ensure Detector implements the interfaces.
var (
	_ driven.Detector    = (*Detector)(nil)
	_ driven.ByteMatcher = (*Detector)(nil)
	_ driven.Described   = (*Detector)(nil)
)

// Option configures a Detector.
type Option func(*Detector)

// WithLenientErrors makes Matches report unreadable files as non-matches.
// The failure is still logged at WARN.
func WithLenientErrors() Option {
	return func(d *Detector) {
		d.lenient = true
	}
}

// Detector matches files whose leading bytes equal a fixed signature.
// It holds no mutable state; each call opens and closes its own file handle.
type Detector struct {
	format  domain.Format
	sig     domain.Signature
	lenient bool
}

// New creates a detector for format identified by sig.
// The format's HeaderLen is set from the signature.
func New(format domain.Format, sig domain.Signature, opts ...Option) *Detector {
	sig.Pattern = append([]byte(nil), sig.Pattern...)
	format.HeaderLen = sig.Len()

	d := &Detector{
		format: format,
		sig:    sig,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// With returns a copy of the detector with additional options applied.
func (d *Detector) With(opts ...Option) *Detector {
	cp := *d
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Format returns the format this detector recognises.
func (d *Detector) Format() domain.Format {
	return d.format
}

// Description returns the human-readable format name.
func (d *Detector) Description() string {
	return d.format.Description
}

// HeaderLen returns the number of bytes read from each file.
func (d *Detector) HeaderLen() int {
	return d.sig.Len()
}

// Signature returns a copy of the signature.
func (d *Detector) Signature() domain.Signature {
	return domain.Signature{
		Offset:  d.sig.Offset,
		Pattern: append([]byte(nil), d.sig.Pattern...),
	}
}

// Lenient reports whether I/O failures are coerced to non-matches.
func (d *Detector) Lenient() bool {
	return d.lenient
}

// Probe reads the header of the file at path and compares it with the signature.
func (d *Detector) Probe(path string) (domain.Outcome, error) {
	buf, err := ReadHeader(path, d.sig.Len())
	switch {
	case errors.Is(err, domain.ErrShortHeader):
		logger.Debug("%s: %s has %d of %d header bytes", d.format.ID, path, len(buf), d.sig.Len())
		return domain.OutcomeShortHeader, nil
	case err != nil:
		return domain.OutcomeNoMatch, err
	}

	if d.sig.Match(buf) {
		return domain.OutcomeMatch, nil
	}
	return domain.OutcomeNoMatch, nil
}

// Matches reports whether the file at path carries the signature.
func (d *Detector) Matches(path string) (bool, error) {
	outcome, err := d.Probe(path)
	if err != nil {
		if d.lenient && errors.Is(err, domain.ErrUnreadable) {
			logger.Warn("%s: treating unreadable file as non-match: %v", d.format.ID, err)
			return false, nil
		}
		return false, err
	}
	return outcome.Matched(), nil
}

// MatchBytes reports whether an in-memory header carries the signature.
func (d *Detector) MatchBytes(header []byte) bool {
	return d.sig.Match(header)
}
