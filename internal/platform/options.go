package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/runways/pkg/core"
)

// Preference backends accepted by WithPreferences.
const (
	PreferencesFile   = "file"
	PreferencesSQLite = "sqlite"
)

// options holds the internal configuration for an App.
type options struct {
	documents    core.DocumentStore
	preferences  core.Preferences
	logger       *slog.Logger
	backend      string
	clock        func() time.Time
	errorHandler core.ErrorHandler
	airfields    []core.Airfield
	config       map[string]interface{}
}

// Option defines a functional option for configuring an App.
type Option func(*options)

// defaultOptions selects the file preference backend.
func defaultOptions() *options {
	return &options{
		backend: PreferencesFile,
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger shared by every store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithForceTemp re-roots the data directory under the temp dir even outside
// go run and go test.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist refuses to create a missing data directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly opens the real data directory without ever writing to it.
// Every store write fails with core.ErrReadOnly and is reported like any other
// swallowed failure. The directory is not created and the dev sandbox is
// bypassed. The sqlite preference backend refuses this mode.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety toggles the dev sandbox. Enabled by default: under go run or
// go test the data directory is re-rooted below os.TempDir()/runways-dev.
//
// CAUTION: disabling it lets a development build write the pilot's real data.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithPreferences selects the preference backend by name ("file" or "sqlite").
func WithPreferences(backend string) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithPreferencesStore injects a preference backend. The backend named by
// WithPreferences is then ignored.
func WithPreferencesStore(p core.Preferences) Option {
	return func(o *options) {
		o.preferences = p
	}
}

// WithDocumentStore injects the document backend used by the notes and board
// stores. The filesystem adapter is then skipped.
func WithDocumentStore(d core.DocumentStore) Option {
	return func(o *options) {
		o.documents = d
	}
}

// WithClock overrides the time source used for note and vote timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithErrorHandler registers a callback receiving every persistence failure
// the stores swallow. Failures are logged either way.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithEventBuffer sets the per-subscriber channel size of every store.
// Zero keeps core.DefaultEventBuffer.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithCatalog replaces the built-in reference airfields. The list is
// validated when the App opens.
func WithCatalog(airfields []core.Airfield) Option {
	return func(o *options) {
		o.airfields = airfields
	}
}
