package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driven/config/convert"
	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDetectorOrder   = "detectors.order"
	keyDetectorLenient = "detectors.lenient"
	keyHistoryEnabled  = "history.enabled"
	keyHistoryBackend  = "history.backend"
	keyScanPatterns    = "scan.patterns"
	keyWatchDebounce   = "watch.debounce"
	keyWatchRate       = "watch.rate"
)

// settingKeys lists the keys in display order.
var settingKeys = []string{
	keyDetectorOrder,
	keyDetectorLenient,
	keyHistoryEnabled,
	keyHistoryBackend,
	keyScanPatterns,
	keyWatchDebounce,
	keyWatchRate,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Detectors: domain.DetectorSettings{
			Order:   s.configStore.GetStringSlice(keyDetectorOrder),
			Lenient: s.getBool(keyDetectorLenient, defaults.Detectors.Lenient),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
			Backend: s.getBackend(defaults.History.Backend),
		},
		Scan: domain.ScanSettings{
			Patterns: s.getStringSlice(keyScanPatterns, defaults.Scan.Patterns),
		},
		Watch: domain.WatchSettings{
			Debounce: s.getDuration(keyWatchDebounce, defaults.Watch.Debounce),
			Rate:     s.getFloat(keyWatchRate, defaults.Watch.Rate),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("nil settings: %w", domain.ErrInvalidInput)
	}
	if !settings.History.Backend.IsValid() {
		return fmt.Errorf("history backend %q: %w", settings.History.Backend, domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDetectorOrder, nonNil(settings.Detectors.Order)},
		{keyDetectorLenient, settings.Detectors.Lenient},
		{keyHistoryEnabled, settings.History.Enabled},
		{keyHistoryBackend, settings.History.Backend.String()},
		{keyScanPatterns, nonNil(settings.Scan.Patterns)},
		{keyWatchDebounce, settings.Watch.Debounce.String()},
		{keyWatchRate, settings.Watch.Rate},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys lists the configuration keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Value returns the effective value of key, defaults included.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyDetectorOrder:
		return strings.Join(settings.Detectors.Order, ","), nil
	case keyDetectorLenient:
		return strconv.FormatBool(settings.Detectors.Lenient), nil
	case keyHistoryEnabled:
		return strconv.FormatBool(settings.History.Enabled), nil
	case keyHistoryBackend:
		return settings.History.Backend.String(), nil
	case keyScanPatterns:
		return strings.Join(settings.Scan.Patterns, ","), nil
	case keyWatchDebounce:
		return settings.Watch.Debounce.String(), nil
	case keyWatchRate:
		return strconv.FormatFloat(settings.Watch.Rate, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unknown key %q: %w", key, domain.ErrNotFound)
	}
}

// SetValue parses raw for key and persists it.
// List values are comma-separated.
func (s *SettingsService) SetValue(key, raw string) error {
	var value any

	switch key {
	case keyDetectorOrder, keyScanPatterns:
		value = splitList(raw)
	case keyDetectorLenient, keyHistoryEnabled:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", key, domain.ErrInvalidInput, err)
		}
		value = b
	case keyHistoryBackend:
		backend := domain.HistoryBackend(raw)
		if !backend.IsValid() {
			return fmt.Errorf("%s: unknown backend %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = backend.String()
	case keyWatchDebounce:
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return fmt.Errorf("%s: invalid duration %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = d.String()
	case keyWatchRate:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s: invalid rate %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = f
	default:
		return fmt.Errorf("unknown key %q: %w", key, domain.ErrNotFound)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	return convert.Duration(val, defaultVal)
}

func (s *SettingsService) getBackend(defaultVal domain.HistoryBackend) domain.HistoryBackend {
	val := s.configStore.GetString(keyHistoryBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.HistoryBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func splitList(raw string) []string {
	result := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
