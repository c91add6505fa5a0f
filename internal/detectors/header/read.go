package header

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// ReadHeader reads exactly n bytes from the start of the file at path.
//
// If the file holds fewer than n bytes, the bytes that were available are
// returned together with an error wrapping domain.ErrShortHeader.
// Failures to stat, open or read the file wrap domain.ErrUnreadable and the
// underlying *fs.PathError. Directories are rejected with domain.ErrInvalidInput.
func ReadHeader(path string, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("header length %d: %w", n, domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", path, domain.ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", path, domain.ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrInvalidInput)
	}

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	switch {
	case err == nil:
		return buf, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:read], fmt.Errorf("%s: read %d of %d bytes: %w", path, read, n, domain.ErrShortHeader)
	default:
		return nil, fmt.Errorf("reading %s: %w: %w", path, domain.ErrUnreadable, err)
	}
}
