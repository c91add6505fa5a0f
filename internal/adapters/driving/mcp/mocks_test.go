package mcp

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// mockClassifierService is a mock implementation of driving.ClassifierService.
type mockClassifierService struct {
	result   *domain.Classification
	formats  []domain.Format
	err      error
	lastPath string
	lastData []byte
}

func (m *mockClassifierService) Classify(_ context.Context, path string) (*domain.Classification, error) {
	m.lastPath = path
	return m.result, m.err
}

func (m *mockClassifierService) ClassifyStream(_ context.Context, name string, r io.Reader) (*domain.Classification, error) {
	m.lastPath = name
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.lastData = data
	return m.result, m.err
}

func (m *mockClassifierService) ClassifyAll(_ context.Context, _ []string) ([]domain.Classification, error) {
	return nil, m.err
}

func (m *mockClassifierService) Scan(_ context.Context, _ string, _ []string) ([]domain.Classification, error) {
	return nil, m.err
}

func (m *mockClassifierService) Formats() []domain.Format {
	return m.formats
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	history   []domain.Classification
	record    *domain.Classification
	err       error
	lastLimit int
}

func (m *mockHistoryService) History(_ context.Context, limit int) ([]domain.Classification, error) {
	m.lastLimit = limit
	return m.history, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.Classification, error) {
	return m.record, m.err
}

func (m *mockHistoryService) LatestForPath(_ context.Context, _ string) (*domain.Classification, error) {
	return m.record, m.err
}

func (m *mockHistoryService) Prune(_ context.Context, _ int) (int, error) {
	return 0, m.err
}

func celClassification(id, path string) *domain.Classification {
	return &domain.Classification{
		ID:           id,
		Path:         path,
		FormatID:     "cel",
		Extension:    "cel",
		Size:         4096,
		Probed:       []string{"cel"},
		ClassifiedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func builtinFormats() []domain.Format {
	return []domain.Format{
		{ID: "cel", Extension: "cel", Description: "Affymetrix CEL v4", HeaderLen: 8},
		{ID: "celcc1", Extension: "celcc1", Description: "Affymetrix Command Console v1 CEL", HeaderLen: 2},
	}
}
