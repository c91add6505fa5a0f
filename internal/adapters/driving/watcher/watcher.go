package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sniff-cli/internal/core/services"
	"github.com/custodia-labs/sniff-cli/internal/logger"
)

const (
	// eventChannelBuffer is the size of the result channel.
	eventChannelBuffer = 256

	// minTick bounds how often pending paths are checked.
	minTick = 10 * time.Millisecond
)

// Config configures a Watcher.
type Config struct {
	// Debounce is how long a path must be quiet before it is classified.
	Debounce time.Duration

	// Rate is the maximum number of classifications per second.
	// Zero or less means unlimited.
	Rate float64

	// Patterns are doublestar globs relative to the watched root.
	// Empty means every file.
	Patterns []string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	s := domain.DefaultSettings()
	return Config{
		Debounce: s.Watch.Debounce,
		Rate:     s.Watch.Rate,
		Patterns: s.Scan.Patterns,
	}
}

// Event is the outcome of classifying one settled file.
type Event struct {
	Path           string
	Classification *domain.Classification
	Err            error
}

// Watcher watches a directory tree and classifies new and modified files.
type Watcher struct {
	root       string
	config     Config
	classifier driving.ClassifierService
	fsw        *fsnotify.Watcher
	limiter    *rate.Limiter

	pendingMu sync.Mutex
	pending   map[string]time.Time

	events  chan Event
	dropped atomic.Int64
}

// New creates a watcher for root. Call Run to start it.
func New(root string, classifier driving.ClassifierService, config Config) (*Watcher, error) {
	if classifier == nil {
		return nil, fmt.Errorf("nil classifier: %w", domain.ErrInvalidInput)
	}
	for _, p := range config.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("pattern %q: %w", p, domain.ErrInvalidInput)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", abs, domain.ErrUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", abs, domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	limit := rate.Inf
	if config.Rate > 0 {
		limit = rate.Limit(config.Rate)
	}

	return &Watcher{
		root:       abs,
		config:     config,
		classifier: classifier,
		fsw:        fsw,
		limiter:    rate.NewLimiter(limit, 1),
		pending:    make(map[string]time.Time),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Events returns the channel of classification results.
// It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dropped returns the number of results dropped because Events was full.
func (w *Watcher) Dropped() int64 {
	return w.dropped.Load()
}

// Close releases the underlying watcher. Run closes it on return, so Close
// is only needed for a watcher that is never run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run watches until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fsw.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	logger.Info("watching %s (debounce %s)", w.root, w.config.Debounce)

	tick := w.config.Debounce / 2
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleFsEvent(event, time.Now())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case now := <-ticker.C:
			if err := w.flush(ctx, now); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

// addRecursive watches dir and every non-hidden directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && services.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		logger.Debug("watching directory %s", path)
		return nil
	})
}

// handleFsEvent records a settled-candidate path for a create or write.
// New directories are watched and their existing files queued.
func (w *Watcher) handleFsEvent(event fsnotify.Event, now time.Time) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.forget(event.Name)
		}
		return
	}

	rel, ok := w.relative(event.Name)
	if !ok || hasHiddenComponent(rel) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			w.handleNewDirectory(event.Name, now)
		}
		return
	}
	if !info.Mode().IsRegular() || !w.matches(rel) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = now
	w.pendingMu.Unlock()
}

// handleNewDirectory watches a directory that appeared after Run started.
// Files moved in together with the directory produce no events of their own.
func (w *Watcher) handleNewDirectory(dir string, now time.Time) {
	if err := w.addRecursive(dir); err != nil {
		logger.Warn("watching new directory %s: %v", dir, err)
		return
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && services.IsHidden(d.Name()) && path != dir {
			return filepath.SkipDir
		}
		if !d.Type().IsRegular() || services.IsHidden(d.Name()) {
			return nil
		}
		if rel, ok := w.relative(path); ok && w.matches(rel) {
			w.pendingMu.Lock()
			w.pending[path] = now
			w.pendingMu.Unlock()
		}
		return nil
	})
}

func (w *Watcher) forget(path string) {
	w.pendingMu.Lock()
	delete(w.pending, path)
	w.pendingMu.Unlock()
}

// due removes and returns the paths that have been quiet for the debounce period.
func (w *Watcher) due(now time.Time) []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	var ready []string
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.config.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// flush classifies settled paths, waiting on the rate limiter between files.
func (w *Watcher) flush(ctx context.Context, now time.Time) error {
	for _, path := range w.due(now) {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		c, err := w.classifier.Classify(ctx, path)
		if errors.Is(err, context.Canceled) {
			return err
		}
		w.send(Event{Path: path, Classification: c, Err: err})
	}
	return nil
}

func (w *Watcher) send(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.dropped.Add(1)
		logger.Warn("result channel full, dropping %s (%d dropped)", event.Path, dropped)
	}
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) matches(rel string) bool {
	if len(w.config.Patterns) == 0 {
		return true
	}
	return services.MatchAny(w.config.Patterns, rel)
}

func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if services.IsHidden(part) {
			return true
		}
	}
	return false
}
