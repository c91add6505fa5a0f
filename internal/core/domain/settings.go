package domain

import "time"

// HistoryBackend selects where classification history is kept.
type HistoryBackend string

// Available history backends.
const (
	// HistoryBackendSQLite persists history in ~/.sniff/data/history.db.
	HistoryBackendSQLite HistoryBackend = "sqlite"

	// HistoryBackendMemory keeps history for the lifetime of the process.
	HistoryBackendMemory HistoryBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b HistoryBackend) IsValid() bool {
	switch b {
	case HistoryBackendSQLite, HistoryBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b HistoryBackend) String() string {
	return string(b)
}

// Settings holds user-configurable classification behaviour.
type Settings struct {
	Detectors DetectorSettings
	History   HistorySettings
	Scan      ScanSettings
	Watch     WatchSettings
}

// DetectorSettings controls detector ordering and error policy.
type DetectorSettings struct {
	// Order lists format identifiers in priority order.
	// Formats not listed keep their registration order after the listed ones.
	Order []string

	// Lenient coerces I/O failures to a non-match instead of an error.
	Lenient bool
}

// HistorySettings controls classification recording.
type HistorySettings struct {
	Enabled bool
	Backend HistoryBackend
}

// ScanSettings controls directory scans.
type ScanSettings struct {
	// Patterns are doublestar globs relative to the scan root.
	Patterns []string
}

// WatchSettings controls inbox watching.
type WatchSettings struct {
	// Debounce is how long a file must be quiet before it is classified.
	Debounce time.Duration

	// Rate is the maximum number of classifications per second.
	Rate float64
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Detectors: DetectorSettings{
			Order:   nil,
			Lenient: false,
		},
		History: HistorySettings{
			Enabled: true,
			Backend: HistoryBackendSQLite,
		},
		Scan: ScanSettings{
			Patterns: []string{"**/*"},
		},
		Watch: WatchSettings{
			Debounce: 500 * time.Millisecond,
			Rate:     20,
		},
	}
}
