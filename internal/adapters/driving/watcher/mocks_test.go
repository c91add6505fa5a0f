package watcher

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
)

// mockClassifier records classified paths and recognises *.cel files.
type mockClassifier struct {
	mu    sync.Mutex
	paths []string
	err   error
}

var _ driving.ClassifierService = (*mockClassifier)(nil)

func (m *mockClassifier) Classify(_ context.Context, path string) (*domain.Classification, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	c := &domain.Classification{ID: "id-" + filepath.Base(path), Path: path}
	if filepath.Ext(path) == ".cel" {
		c.FormatID = "cel"
		c.Extension = "cel"
	}
	return c, nil
}

func (m *mockClassifier) ClassifyStream(context.Context, string, io.Reader) (*domain.Classification, error) {
	return nil, nil
}

func (m *mockClassifier) ClassifyAll(context.Context, []string) ([]domain.Classification, error) {
	return nil, nil
}

func (m *mockClassifier) Scan(context.Context, string, []string) ([]domain.Classification, error) {
	return nil, nil
}

func (m *mockClassifier) Formats() []domain.Format {
	return nil
}

func (m *mockClassifier) classified() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
