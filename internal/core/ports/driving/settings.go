package driving

import "github.com/custodia-labs/sniff-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.Settings, error)

	// Save persists settings.
	Save(settings *domain.Settings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Keys lists the configuration keys understood by sniff.
	Keys() []string

	// Value returns the effective value of key formatted for display.
	Value(key string) (string, error)

	// SetValue parses raw for key, validates it and persists it.
	SetValue(key, raw string) error
}
