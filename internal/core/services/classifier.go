package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
	"github.com/custodia-labs/sniff-cli/internal/logger"
	"github.com/custodia-labs/sniff-cli/internal/metrics"
)

// Ensure Classifier implements the interfaces.
var (
	_ driving.ClassifierService = (*Classifier)(nil)
	_ driving.HistoryService    = (*Classifier)(nil)
)

// defaultScanPattern matches every file below the scan root.
const defaultScanPattern = "**/*"

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithStore records every classification in store.
func WithStore(store driven.ClassificationStore) ClassifierOption {
	return func(c *Classifier) {
		c.store = store
	}
}

// WithMetrics records classification counters in m.
func WithMetrics(m *metrics.Metrics) ClassifierOption {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// Classifier runs the registered detectors over files in priority order
// and adopts the identifier of the first detector that matches.
type Classifier struct {
	registry driven.FormatRegistry
	store    driven.ClassificationStore
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewClassifier creates a classifier over a populated registry.
func NewClassifier(registry driven.FormatRegistry, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Formats returns the registered formats in priority order.
func (c *Classifier) Formats() []domain.Format {
	return c.registry.Formats()
}

// Classify identifies the format of the regular file at path.
// The first detector returning true wins. A detector error aborts the pass
// so that unreadable files are never reported as unrecognised.
func (c *Classifier) Classify(ctx context.Context, path string) (*domain.Classification, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", domain.ErrInvalidInput)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", path, domain.ErrUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", path, domain.ErrInvalidInput)
	}

	start := time.Now()
	result := &domain.Classification{
		ID:      uuid.New().String(),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	for _, desc := range c.registry.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := desc.Format.ID
		result.Probed = append(result.Probed, id)

		matched, err := desc.Detector.Matches(path)
		if err != nil {
			c.metrics.ObserveError(id)
			return nil, fmt.Errorf("classifying %s with %s: %w", path, id, err)
		}
		c.metrics.ObserveProbe(id, matched)
		logger.Debug("%s: %s matched=%t", id, path, matched)

		if matched {
			result.FormatID = id
			result.Extension = desc.Format.Extension
			break
		}
	}

	result.ClassifiedAt = c.now()
	c.metrics.ObserveClassification(result.FormatID, time.Since(start))
	logger.Info("%s -> %s", path, result.Label())

	c.record(ctx, result)
	return result, nil
}

// ClassifyStream identifies the format of a byte stream, such as an upload
// that has not reached disk. Detectors see only the longest registered
// header; the rest of the stream is drained to record its size.
// Detectors that cannot match in-memory bytes are skipped.
func (c *Classifier) ClassifyStream(ctx context.Context, name string, r io.Reader) (*domain.Classification, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	s := header.NewSniffer(io.Discard, c.registry.All())
	n, err := io.Copy(s, io.LimitReader(r, int64(s.Need())))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", name, domain.ErrUnreadable, err)
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	rest, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", name, domain.ErrUnreadable, err)
	}
	n += rest

	result := &domain.Classification{
		ID:           uuid.New().String(),
		Path:         name,
		Size:         n,
		Probed:       s.Probed(),
		ClassifiedAt: c.now(),
	}
	if format, ok := s.Format(); ok {
		result.FormatID = format.ID
		result.Extension = format.Extension
	}

	c.metrics.ObserveClassification(result.FormatID, time.Since(start))
	logger.Info("%s (stream) -> %s", name, result.Label())

	c.record(ctx, result)
	return result, nil
}

// ClassifyAll classifies each path in turn. Per-file failures are joined
// into the returned error; the remaining files are still classified.
func (c *Classifier) ClassifyAll(ctx context.Context, paths []string) ([]domain.Classification, error) {
	results := make([]domain.Classification, 0, len(paths))
	var errs []error

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := c.Classify(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *result)
	}

	return results, errors.Join(errs...)
}

// Scan classifies every non-hidden regular file below root whose slash-separated
// relative path matches one of the doublestar patterns. With no patterns,
// every file is classified.
func (c *Classifier) Scan(ctx context.Context, root string, patterns []string) ([]domain.Classification, error) {
	if len(patterns) == 0 {
		patterns = []string{defaultScanPattern}
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("pattern %q: %w", p, domain.ErrInvalidInput)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", root, domain.ErrUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, domain.ErrInvalidInput)
	}

	logger.Section("Scan " + root)

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != root && IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if MatchAny(patterns, filepath.ToSlash(rel)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return c.ClassifyAll(ctx, paths)
}

// History returns recorded classifications, newest first.
// Without a store, history is empty.
func (c *Classifier) History(ctx context.Context, limit int) ([]domain.Classification, error) {
	if c.store == nil {
		return []domain.Classification{}, nil
	}
	return c.store.List(ctx, limit)
}

// Get returns a recorded classification by ID.
func (c *Classifier) Get(ctx context.Context, id string) (*domain.Classification, error) {
	if c.store == nil {
		return nil, domain.ErrNotFound
	}
	return c.store.Get(ctx, id)
}

// LatestForPath returns the newest recorded classification of path.
func (c *Classifier) LatestForPath(ctx context.Context, path string) (*domain.Classification, error) {
	if c.store == nil {
		return nil, domain.ErrNotFound
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return c.store.LatestForPath(ctx, path)
}

// Prune deletes all but the newest keep classifications.
func (c *Classifier) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep %d: %w", keep, domain.ErrInvalidInput)
	}
	if c.store == nil {
		return 0, nil
	}
	return c.store.Prune(ctx, keep)
}

// record saves a classification. Store failures never fail classification.
func (c *Classifier) record(ctx context.Context, result *domain.Classification) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, result); err != nil {
		logger.Warn("recording classification of %s: %v", result.Path, err)
	}
}

// IsHidden returns true for dot-files and dot-directories.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// MatchAny reports whether a slash-separated path matches any doublestar pattern.
// Invalid patterns never match.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
