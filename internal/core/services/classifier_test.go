package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/detectors"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
	"github.com/custodia-labs/sniff-cli/internal/metrics"
)

var (
	celBytes    = []byte{0x40, 0, 0, 0, 0x04, 0, 0, 0, 0xAA, 0xBB}
	celcc1Bytes = []byte{0x3B, 0x01, 0x00, 0x00}
)

// countingDetector returns a fixed answer and counts invocations.
type countingDetector struct {
	matched bool
	err     error
	calls   atomic.Int32
}

func (d *countingDetector) Matches(string) (bool, error) {
	d.calls.Add(1)
	return d.matched, d.err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func defaultRegistry(t *testing.T) *FormatRegistry {
	t.Helper()
	r := NewFormatRegistry()
	require.NoError(t, detectors.RegisterDefaults(r))
	r.Freeze()
	return r
}

func TestClassifier_Classify_BuiltinFormats(t *testing.T) {
	dir := t.TempDir()
	c := NewClassifier(defaultRegistry(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		data   []byte
		format string
		ext    string
		probed []string
	}{
		{name: "cel v4", data: celBytes, format: "cel", ext: "cel", probed: []string{"cel"}},
		{name: "command console", data: celcc1Bytes, format: "celcc1", ext: "celcc1", probed: []string{"cel", "celcc1"}},
		{name: "text", data: []byte("hello world"), probed: []string{"cel", "celcc1"}},
		{name: "empty", data: nil, probed: []string{"cel", "celcc1"}},
		{name: "one byte", data: []byte{0x3B}, probed: []string{"cel", "celcc1"}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("file%d", i), tt.data)

			result, err := c.Classify(ctx, path)
			require.NoError(t, err)

			assert.NotEmpty(t, result.ID)
			assert.Equal(t, path, result.Path)
			assert.Equal(t, tt.format, result.FormatID)
			assert.Equal(t, tt.ext, result.Extension)
			assert.Equal(t, tt.format != "", result.Recognised())
			assert.Equal(t, int64(len(tt.data)), result.Size)
			assert.Equal(t, tt.probed, result.Probed)
			assert.False(t, result.ClassifiedAt.IsZero())
		})
	}
}

func TestClassifier_Classify_FirstMatchWins(t *testing.T) {
	first := &countingDetector{matched: true}
	second := &countingDetector{matched: true}

	r := NewFormatRegistry()
	require.NoError(t, r.Register("first", "one", first))
	require.NoError(t, r.Register("second", "two", second))
	r.Freeze()

	path := writeFile(t, t.TempDir(), "data.bin", []byte("anything"))
	result, err := NewClassifier(r).Classify(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "first", result.FormatID)
	assert.Equal(t, "one", result.Extension)
	assert.Equal(t, []string{"first"}, result.Probed)
	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(0), second.calls.Load())
}

func TestClassifier_Classify_PriorityOrder(t *testing.T) {
	r := NewFormatRegistry()
	require.NoError(t, r.Register("first", "one", &countingDetector{matched: true}))
	require.NoError(t, r.Register("second", "two", &countingDetector{matched: true}))
	require.NoError(t, r.Reorder([]string{"second"}))
	r.Freeze()

	path := writeFile(t, t.TempDir(), "data.bin", []byte("anything"))
	result, err := NewClassifier(r).Classify(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "second", result.FormatID)
}

func TestClassifier_Classify_DetectorErrorAborts(t *testing.T) {
	failing := &countingDetector{err: domain.ErrUnreadable}
	after := &countingDetector{matched: true}

	r := NewFormatRegistry()
	require.NoError(t, r.Register("broken", "x", failing))
	require.NoError(t, r.Register("after", "y", after))
	r.Freeze()

	m := metrics.New()
	path := writeFile(t, t.TempDir(), "data.bin", []byte("anything"))
	result, err := NewClassifier(r, WithMetrics(m)).Classify(context.Background(), path)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUnreadable)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, int32(0), after.calls.Load())
	count, err := testutil.GatherAndCount(m.Registry(), "sniff_detector_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClassifier_Classify_InvalidPaths(t *testing.T) {
	c := NewClassifier(defaultRegistry(t))
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("empty", func(t *testing.T) {
		_, err := c.Classify(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := c.Classify(ctx, filepath.Join(dir, "missing.cel"))
		assert.ErrorIs(t, err, domain.ErrUnreadable)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := c.Classify(ctx, dir)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClassifier_Classify_ContextCancelled(t *testing.T) {
	d := &countingDetector{}
	r := NewFormatRegistry()
	require.NoError(t, r.Register("only", "x", d))
	r.Freeze()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeFile(t, t.TempDir(), "data.bin", []byte("anything"))
	_, err := NewClassifier(r).Classify(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestClassifier_Classify_Idempotent(t *testing.T) {
	c := NewClassifier(defaultRegistry(t))
	path := writeFile(t, t.TempDir(), "scan.cel", celBytes)

	first, err := c.Classify(context.Background(), path)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first.FormatID, second.FormatID)
	assert.Equal(t, first.Probed, second.Probed)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestClassifier_Classify_RecordsHistory(t *testing.T) {
	store := memory.NewClassificationStore()
	c := NewClassifier(defaultRegistry(t), WithStore(store))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	dir := t.TempDir()
	celPath := writeFile(t, dir, "a.cel", celBytes)
	txtPath := writeFile(t, dir, "b.txt", []byte("text"))

	first, err := c.Classify(ctx, celPath)
	require.NoError(t, err)
	_, err = c.Classify(ctx, txtPath)
	require.NoError(t, err)

	history, err := c.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, txtPath, history[0].Path)
	assert.Equal(t, celPath, history[1].Path)

	got, err := c.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "cel", got.FormatID)

	latest, err := c.LatestForPath(ctx, celPath)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
}

func TestClassifier_Prune(t *testing.T) {
	store := memory.NewClassificationStore()
	c := NewClassifier(defaultRegistry(t), WithStore(store))
	ctx := context.Background()
	dir := t.TempDir()

	for i := 0; i < 3; i++ {
		_, err := c.Classify(ctx, writeFile(t, dir, fmt.Sprintf("f%d.cel", i), celBytes))
		require.NoError(t, err)
	}

	removed, err := c.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	history, err := c.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = c.Prune(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassifier_History_WithoutStore(t *testing.T) {
	c := NewClassifier(defaultRegistry(t))
	ctx := context.Background()

	history, err := c.History(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = c.Get(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.LatestForPath(ctx, "/tmp/x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	removed, err := c.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// failingStore rejects every save.
type failingStore struct {
	*memory.ClassificationStore
}

func (failingStore) Save(context.Context, *domain.Classification) error {
	return errors.New("disk full")
}

func TestClassifier_Classify_StoreFailureIsNotFatal(t *testing.T) {
	var store driven.ClassificationStore = failingStore{memory.NewClassificationStore()}
	c := NewClassifier(defaultRegistry(t), WithStore(store))

	path := writeFile(t, t.TempDir(), "a.cel", celBytes)
	result, err := c.Classify(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "cel", result.FormatID)
}

func TestClassifier_Classify_Metrics(t *testing.T) {
	m := metrics.New()
	c := NewClassifier(defaultRegistry(t), WithMetrics(m))
	dir := t.TempDir()
	ctx := context.Background()

	_, err := c.Classify(ctx, writeFile(t, dir, "a.cel", celBytes))
	require.NoError(t, err)
	_, err = c.Classify(ctx, writeFile(t, dir, "b.txt", []byte("text")))
	require.NoError(t, err)

	classified, err := testutil.GatherAndCount(m.Registry(), "sniff_classifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, classified)

	probes, err := testutil.GatherAndCount(m.Registry(), "sniff_detector_probes_total")
	require.NoError(t, err)
	assert.Equal(t, 3, probes)
}

func TestClassifier_ClassifyAll(t *testing.T) {
	c := NewClassifier(defaultRegistry(t))
	dir := t.TempDir()

	paths := []string{
		writeFile(t, dir, "a.cel", celBytes),
		filepath.Join(dir, "missing"),
		writeFile(t, dir, "b.celcc1", celcc1Bytes),
		dir,
	}

	results, err := c.ClassifyAll(context.Background(), paths)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadable)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Len(t, results, 2)
	assert.Equal(t, "cel", results[0].FormatID)
	assert.Equal(t, "celcc1", results[1].FormatID)
}

func TestClassifier_ClassifyAll_Empty(t *testing.T) {
	results, err := NewClassifier(defaultRegistry(t)).ClassifyAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClassifier_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cel", celBytes)
	writeFile(t, root, "nested/b.dat", celcc1Bytes)
	writeFile(t, root, "nested/deeper/notes.txt", []byte("notes"))
	writeFile(t, root, ".hidden.cel", celBytes)
	writeFile(t, root, ".git/objects/c.cel", celBytes)

	c := NewClassifier(defaultRegistry(t))
	ctx := context.Background()

	t.Run("default pattern", func(t *testing.T) {
		results, err := c.Scan(ctx, root, nil)
		require.NoError(t, err)

		got := map[string]string{}
		for _, r := range results {
			rel, _ := filepath.Rel(root, r.Path)
			got[filepath.ToSlash(rel)] = r.FormatID
		}
		assert.Equal(t, map[string]string{
			"a.cel":                   "cel",
			"nested/b.dat":            "celcc1",
			"nested/deeper/notes.txt": "",
		}, got)
	})

	t.Run("restricted patterns", func(t *testing.T) {
		results, err := c.Scan(ctx, root, []string{"*.cel", "nested/*.dat"})
		require.NoError(t, err)

		var names []string
		for _, r := range results {
			names = append(names, filepath.Base(r.Path))
		}
		sort.Strings(names)
		assert.Equal(t, []string{"a.cel", "b.dat"}, names)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := c.Scan(ctx, root, []string{"[unclosed"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("root is a file", func(t *testing.T) {
		_, err := c.Scan(ctx, filepath.Join(root, "a.cel"), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := c.Scan(ctx, filepath.Join(root, "nope"), nil)
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})
}

func TestClassifier_ClassifyStream(t *testing.T) {
	c := NewClassifier(defaultRegistry(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		data   []byte
		format string
		size   int64
	}{
		{name: "cel", data: celBytes, format: "cel", size: 10},
		{name: "celcc1", data: celcc1Bytes, format: "celcc1", size: 4},
		{name: "short", data: []byte{0x3B}, size: 1},
		{name: "text", data: []byte("plain text upload"), size: 17},
		{name: "longer than header", data: append(append([]byte{}, celBytes[:8]...), make([]byte, 4096)...), format: "cel", size: 4104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.ClassifyStream(ctx, "upload", bytes.NewReader(tt.data))
			require.NoError(t, err)

			assert.Equal(t, "upload", result.Path)
			assert.Equal(t, tt.format, result.FormatID)
			assert.Equal(t, tt.size, result.Size)
		})
	}

	t.Run("recorded size", func(t *testing.T) {
		store := memory.NewClassificationStore()
		c := NewClassifier(defaultRegistry(t), WithStore(store))
		data := append(append([]byte{}, celcc1Bytes...), make([]byte, 1000)...)

		result, err := c.ClassifyStream(ctx, "upload", bytes.NewReader(data))
		require.NoError(t, err)

		saved, err := store.Get(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1004), saved.Size)
	})

	t.Run("nil reader", func(t *testing.T) {
		_, err := c.ClassifyStream(ctx, "upload", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClassifier_Formats(t *testing.T) {
	formats := NewClassifier(defaultRegistry(t)).Formats()

	require.Len(t, formats, 2)
	assert.Equal(t, "cel", formats[0].ID)
	assert.Equal(t, 8, formats[0].HeaderLen)
	assert.Equal(t, "celcc1", formats[1].ID)
	assert.Equal(t, 2, formats[1].HeaderLen)
}

func TestClassifier_LenientDetectors(t *testing.T) {
	r := NewFormatRegistry()
	require.NoError(t, r.Register("cel", "cel", header.New(
		domain.Format{ID: "cel", Extension: "cel"},
		domain.Signature{Pattern: celBytes[:8]},
		header.WithLenientErrors(),
	)))
	r.Freeze()

	// An unreadable file is reported as unrecognised rather than failing.
	c := NewClassifier(r)
	path := writeFile(t, t.TempDir(), "a.cel", celBytes)
	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { _ = os.Chmod(path, 0o600) })

	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}

	result, err := c.Classify(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, result.Recognised())
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".git"))
	assert.True(t, IsHidden(".hidden.cel"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden(".."))
	assert.False(t, IsHidden("a.cel"))
}

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny([]string{"**/*"}, "a/b/c.cel"))
	assert.True(t, MatchAny([]string{"*.txt", "**/*.cel"}, "x/y.cel"))
	assert.False(t, MatchAny([]string{"*.cel"}, "x/y.cel"))
	assert.False(t, MatchAny([]string{"[bad"}, "x"))
	assert.False(t, MatchAny(nil, "x"))
}
