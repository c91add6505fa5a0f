// Package header implements signature detectors that read a bounded prefix
// of a file and compare it with a fixed byte pattern.
//
// Every concrete binary format is a Detector built from a domain.Format and
// a domain.Signature; adding a format needs no change to calling code.
//
// A Probe distinguishes three outcomes: the header matched, the header
// differed, or the file ended before the header did. Matches collapses the
// last two into false. Open and read failures are reported separately as
// errors wrapping domain.ErrUnreadable, unless the detector was built with
// WithLenientErrors.
package header
