package header

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// writeTemp writes content to a file in a fresh temp dir and returns its path.
func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload_file_data")
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

func testFormat() domain.Format {
	return domain.Format{ID: "test", Extension: "tst", Description: "Test format"}
}

func testSignature() domain.Signature {
	return domain.Signature{Pattern: []byte{0xCA, 0xFE, 0xBA, 0xBE}}
}
