package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sniff-cli/internal/core/services"
)

var (
	_ driving.ClassifierService = (*mockClassifierService)(nil)
	_ driving.HistoryService    = (*mockHistoryService)(nil)
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// mockClassifierService recognises paths ending in .cel and streams starting with 0x40.
// Paths containing "unreadable" fail.
type mockClassifierService struct {
	mu           sync.Mutex
	scanRoot     string
	scanPatterns []string
}

func (m *mockClassifierService) classify(path string) (*domain.Classification, error) {
	if strings.Contains(path, "unreadable") {
		return nil, fmt.Errorf("classifying %s: %w", path, domain.ErrUnreadable)
	}
	c := &domain.Classification{
		ID:           "id-" + filepath.Base(path),
		Path:         path,
		Probed:       []string{"cel", "celcc1"},
		ClassifiedAt: testTime,
	}
	if filepath.Ext(path) == ".cel" {
		c.FormatID = "cel"
		c.Extension = "cel"
		c.Probed = []string{"cel"}
	}
	return c, nil
}

func (m *mockClassifierService) Classify(_ context.Context, path string) (*domain.Classification, error) {
	return m.classify(path)
}

func (m *mockClassifierService) ClassifyStream(_ context.Context, name string, r io.Reader) (*domain.Classification, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := &domain.Classification{
		ID:           "id-" + name,
		Path:         name,
		Size:         int64(len(data)),
		Probed:       []string{"cel", "celcc1"},
		ClassifiedAt: testTime,
	}
	if bytes.HasPrefix(data, []byte{0x40}) {
		c.FormatID = "cel"
		c.Extension = "cel"
		c.Probed = []string{"cel"}
	}
	return c, nil
}

func (m *mockClassifierService) ClassifyAll(_ context.Context, paths []string) ([]domain.Classification, error) {
	var (
		results []domain.Classification
		errs    []error
	)
	for _, p := range paths {
		c, err := m.classify(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *c)
	}
	return results, errors.Join(errs...)
}

func (m *mockClassifierService) Scan(_ context.Context, root string, patterns []string) ([]domain.Classification, error) {
	m.mu.Lock()
	m.scanRoot = root
	m.scanPatterns = patterns
	m.mu.Unlock()

	if strings.Contains(root, "missing") {
		return nil, fmt.Errorf("walking %s: %w", root, domain.ErrUnreadable)
	}
	var results []domain.Classification
	for _, name := range []string{"a.cel", "b.cel", "notes.txt"} {
		c, _ := m.classify(filepath.Join(root, name))
		results = append(results, *c)
	}
	return results, nil
}

func (m *mockClassifierService) Formats() []domain.Format {
	return []domain.Format{
		{ID: "cel", Extension: "cel", Description: "Affymetrix CEL v4", HeaderLen: 8},
		{ID: "celcc1", Extension: "celcc1", Description: "Affymetrix Command Console v1 CEL", HeaderLen: 2},
	}
}

type mockHistoryService struct {
	records  []domain.Classification
	pruned   int
	pruneErr error
}

func (m *mockHistoryService) History(_ context.Context, limit int) ([]domain.Classification, error) {
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.Classification, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			c := m.records[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) LatestForPath(_ context.Context, path string) (*domain.Classification, error) {
	for i := range m.records {
		if m.records[i].Path == path {
			c := m.records[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Prune(_ context.Context, keep int) (int, error) {
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	m.pruned = keep
	if keep >= len(m.records) {
		return 0, nil
	}
	removed := len(m.records) - keep
	m.records = m.records[:keep]
	return removed, nil
}

func sampleHistory() []domain.Classification {
	return []domain.Classification{
		{
			ID: "c-2", Path: "/inbox/run2.cel", FormatID: "cel", Extension: "cel",
			Size: 4096, Probed: []string{"cel"}, ClassifiedAt: testTime.Add(time.Minute),
		},
		{
			ID: "c-1", Path: "/inbox/notes.txt", Size: 12,
			Probed: []string{"cel", "celcc1"}, ClassifiedAt: testTime,
		},
	}
}

type testServices struct {
	classifier *mockClassifierService
	history    *mockHistoryService
	settings   *services.SettingsService
}

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous services and resets every flag.
func setupTestServices() (*testServices, func()) {
	prevClassifier, prevHistory, prevSettings := classifierService, historyService, settingsService
	prevBootstrap := bootstrap

	ts := &testServices{
		classifier: &mockClassifierService{},
		history:    &mockHistoryService{records: sampleHistory()},
		settings:   services.NewSettingsService(memory.NewConfigStore()),
	}
	classifierService = ts.classifier
	historyService = ts.history
	settingsService = ts.settings
	bootstrap = nil

	return ts, func() {
		classifierService, historyService, settingsService = prevClassifier, prevHistory, prevSettings
		bootstrap = prevBootstrap
		resetCommand(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}

// resetCommand restores the defaults of cmd's flags and its subcommands' flags.
func resetCommand(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommand(sub)
	}
}

// execute runs the root command with args and returns stdout.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
