package header

import (
	"io"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
)

// Sniffer passes a byte stream through to a writer while buffering the
// longest header any candidate needs. Once enough bytes have arrived, or the
// stream is closed, the buffered prefix is tested against each candidate in
// order and the first match is kept.
type Sniffer struct {
	w          io.Writer
	candidates []candidate
	need       int
	buf        []byte
	done       bool
	format     domain.Format
	matched    bool
}

type candidate struct {
	format  domain.Format
	matcher driven.ByteMatcher
}

// NewSniffer creates a sniffer writing through to w.
// Descriptors whose detector cannot match in-memory bytes are skipped.
func NewSniffer(w io.Writer, descriptors []driven.FormatDescriptor) *Sniffer {
	if w == nil {
		w = io.Discard
	}

	s := &Sniffer{w: w}
	for _, desc := range descriptors {
		m, ok := desc.Detector.(driven.ByteMatcher)
		if !ok {
			continue
		}
		s.candidates = append(s.candidates, candidate{format: desc.Format, matcher: m})
		if m.HeaderLen() > s.need {
			s.need = m.HeaderLen()
		}
	}
	s.buf = make([]byte, 0, s.need)
	return s
}

// Write buffers the header prefix and forwards p unchanged.
func (s *Sniffer) Write(p []byte) (int, error) {
	if !s.done {
		missing := s.need - len(s.buf)
		if missing > len(p) {
			missing = len(p)
		}
		s.buf = append(s.buf, p[:missing]...)
		if len(s.buf) >= s.need {
			s.sniff()
		}
	}
	return s.w.Write(p)
}

// Close resolves the format from whatever prefix arrived.
// It does not close the underlying writer.
func (s *Sniffer) Close() error {
	if !s.done {
		s.sniff()
	}
	return nil
}

// Need returns the number of bytes required to resolve every candidate.
func (s *Sniffer) Need() int {
	return s.need
}

// Done reports whether the format has been resolved.
func (s *Sniffer) Done() bool {
	return s.done
}

// Format returns the matched format once resolved.
func (s *Sniffer) Format() (domain.Format, bool) {
	return s.format, s.matched
}

// Probed returns the identifiers tested, up to and including the match.
func (s *Sniffer) Probed() []string {
	probed := make([]string, 0, len(s.candidates))
	for _, c := range s.candidates {
		probed = append(probed, c.format.ID)
		if s.matched && c.format.ID == s.format.ID {
			break
		}
	}
	return probed
}

func (s *Sniffer) sniff() {
	s.done = true
	for _, c := range s.candidates {
		if c.matcher.MatchBytes(s.buf) {
			s.format = c.format
			s.matched = true
			return
		}
	}
}
