package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// ClassifierService identifies the binary format of files.
type ClassifierService interface {
	// Classify runs the registered detectors over one file in priority order
	// and adopts the first match. An unrecognised file is not an error.
	Classify(ctx context.Context, path string) (*domain.Classification, error)

	// ClassifyStream classifies a byte stream from its leading bytes.
	// name is recorded as the classification path.
	ClassifyStream(ctx context.Context, name string, r io.Reader) (*domain.Classification, error)

	// ClassifyAll classifies each path, continuing past per-file failures.
	ClassifyAll(ctx context.Context, paths []string) ([]domain.Classification, error)

	// Scan classifies every non-hidden file under root matching one of patterns.
	Scan(ctx context.Context, root string, patterns []string) ([]domain.Classification, error)

	// Formats returns the registered formats in priority order.
	Formats() []domain.Format
}

// HistoryService exposes recorded classifications.
type HistoryService interface {
	// History returns the most recent classifications, newest first.
	History(ctx context.Context, limit int) ([]domain.Classification, error)

	// Get returns a recorded classification by ID.
	Get(ctx context.Context, id string) (*domain.Classification, error)

	// LatestForPath returns the newest recorded classification of a file.
	LatestForPath(ctx context.Context, path string) (*domain.Classification, error)

	// Prune keeps the newest keep classifications and deletes the rest.
	Prune(ctx context.Context, keep int) (int, error)
}
