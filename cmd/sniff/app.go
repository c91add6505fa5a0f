package main

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sniff-cli/internal/core/services"
	"github.com/custodia-labs/sniff-cli/internal/detectors"
	"github.com/custodia-labs/sniff-cli/internal/detectors/header"
	"github.com/custodia-labs/sniff-cli/internal/logger"
	"github.com/custodia-labs/sniff-cli/internal/metrics"
)

// app holds the wired services for one invocation.
type app struct {
	settings   *services.SettingsService
	registry   *services.FormatRegistry
	classifier *services.Classifier
	metrics    *metrics.Metrics

	// history is nil when history is disabled.
	history driving.HistoryService

	store *sqlite.Store
}

// newApp builds the services from the configuration in configDir.
// An empty configDir means ~/.sniff.
func newApp(configDir string) (*app, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	registry, err := newRegistry(settings.Detectors)
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settingsService,
		registry: registry,
		metrics:  metrics.New(),
	}

	opts := []services.ClassifierOption{services.WithMetrics(a.metrics)}
	if settings.History.Enabled {
		store, err := a.openHistory(configDir, settings.History.Backend)
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithStore(store))
	}

	a.classifier = services.NewClassifier(registry, opts...)
	if settings.History.Enabled {
		a.history = a.classifier
	}

	logger.Debug("formats: %v, history: %v (%s)", registry.IDs(), settings.History.Enabled, settings.History.Backend)
	return a, nil
}

// newRegistry registers the built-in detectors, applies the configured
// priority order and freezes the registry.
func newRegistry(cfg domain.DetectorSettings) (*services.FormatRegistry, error) {
	var opts []header.Option
	if cfg.Lenient {
		opts = append(opts, header.WithLenientErrors())
	}

	registry := services.NewFormatRegistry()
	if err := detectors.RegisterDefaults(registry, opts...); err != nil {
		return nil, err
	}
	if len(cfg.Order) > 0 {
		if err := registry.Reorder(cfg.Order); err != nil {
			return nil, fmt.Errorf("applying detectors.order: %w", err)
		}
	}
	registry.Freeze()
	return registry, nil
}

func (a *app) openHistory(configDir string, backend domain.HistoryBackend) (driven.ClassificationStore, error) {
	if backend == domain.HistoryBackendMemory {
		return memory.NewClassificationStore(), nil
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	a.store = store
	return store.ClassificationStore(), nil
}

// Close releases the history database.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
