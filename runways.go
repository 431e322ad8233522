package runways

import (
	"log/slog"
	"time"

	"github.com/aretw0/runways/internal/platform"
	"github.com/aretw0/runways/pkg/core"
)

// --- Types ---

// App is the composition root owning every store.
type App = platform.App

// AppState is the aggregated observability snapshot of an App.
type AppState = platform.AppState

// --- Configuration ---

// Option defines a functional option for configuring an App.
type Option = platform.Option

// Preference backends.
const (
	PreferencesFile   = platform.PreferencesFile
	PreferencesSQLite = platform.PreferencesSQLite
)

// WithLogger sets the logger shared by every store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly refuses every write; failures are reported, never returned.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithPreferences selects the preference backend ("file" or "sqlite").
func WithPreferences(backend string) Option {
	return platform.WithPreferences(backend)
}

// WithPreferencesStore injects a preference backend.
func WithPreferencesStore(p core.Preferences) Option {
	return platform.WithPreferencesStore(p)
}

// WithDocumentStore injects the document backend.
func WithDocumentStore(d core.DocumentStore) Option {
	return platform.WithDocumentStore(d)
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithErrorHandler receives every swallowed persistence failure.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithEventBuffer sets the per-subscriber event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithCatalog replaces the built-in reference airfields.
func WithCatalog(airfields []core.Airfield) Option {
	return platform.WithCatalog(airfields)
}

// --- Factory ---

// Open builds an App on the data directory at path ("" for the default).
func Open(path string, opts ...Option) (*App, error) {
	return platform.Open(path, opts...)
}

// --- Safety & Utils ---

// DefaultDataDir is $RUNWAYS_HOME, else the per-user config directory.
func DefaultDataDir() (string, error) {
	return platform.DefaultDataDir()
}

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindConfig looks upwards from startDir for a runways.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
