package driven

import (
	"context"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// ClassificationStore persists classification history.
type ClassificationStore interface {
	// Save records a classification.
	Save(ctx context.Context, c *domain.Classification) error

	// Get retrieves a classification by ID.
	Get(ctx context.Context, id string) (*domain.Classification, error)

	// List returns the most recent classifications, newest first.
	// A limit of zero or less returns everything.
	List(ctx context.Context, limit int) ([]domain.Classification, error)

	// LatestForPath returns the newest classification of a path.
	LatestForPath(ctx context.Context, path string) (*domain.Classification, error)

	// Prune deletes all but the newest keep classifications and
	// returns the number removed.
	Prune(ctx context.Context, keep int) (int, error)
}
