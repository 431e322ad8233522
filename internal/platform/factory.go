package platform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/runways/pkg/adapters/fs"
	"github.com/aretw0/runways/pkg/adapters/sqlite"
	"github.com/aretw0/runways/pkg/board"
	"github.com/aretw0/runways/pkg/catalog"
	"github.com/aretw0/runways/pkg/core"
	"github.com/aretw0/runways/pkg/favourites"
	"github.com/aretw0/runways/pkg/notes"
)

// App owns one instance of every store plus the reference catalog. It is
// the single composition root; stores are not meant to be shared between
// two Apps on the same directory.
type App struct {
	Path        string
	Catalog     *catalog.Catalog
	Favourites  *favourites.Store
	Notes       *notes.Store
	Board       *board.Store
	Documents   core.DocumentStore
	Preferences core.Preferences
	ReadOnly    bool

	logger  *slog.Logger
	closers []io.Closer
}

// Open builds an App on the data directory at path. An empty path means
// DefaultDataDir.
//
//	app, err := platform.Open("", platform.WithLogger(logger))
func Open(path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolved, err := resolvePath(path, o, logger)
	if err != nil {
		return nil, err
	}
	readOnly, _ := o.config["read_only"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	buffer, _ := o.config["event_buffer"].(int)

	cat, err := openCatalog(o)
	if err != nil {
		return nil, err
	}

	app := &App{Path: resolved, Catalog: cat, ReadOnly: readOnly, logger: logger}

	app.Documents = o.documents
	if app.Documents == nil {
		docs := fs.NewDocumentStore(fs.Config{
			Path:      resolved,
			ReadOnly:  readOnly,
			MustExist: mustExist,
			Logger:    logger,
		})
		if err := docs.Initialize(); err != nil {
			return nil, err
		}
		app.Documents = docs
	}

	app.Preferences = o.preferences
	if app.Preferences == nil {
		prefs, closer, err := openPreferences(o.backend, resolved, readOnly, logger)
		if err != nil {
			return nil, err
		}
		app.Preferences = prefs
		if closer != nil {
			app.closers = append(app.closers, closer)
		}
	}

	app.Favourites = favourites.New(favourites.Config{
		Preferences:  app.Preferences,
		Logger:       logger.With("store", core.StoreFavourites),
		ErrorHandler: o.errorHandler,
		EventBuffer:  buffer,
	})
	app.Notes = notes.New(notes.Config{
		Documents:    app.Documents,
		Logger:       logger.With("store", core.StorePrivateNotes),
		Clock:        o.clock,
		ErrorHandler: o.errorHandler,
		EventBuffer:  buffer,
	})
	app.Board = board.New(board.Config{
		Documents:    app.Documents,
		Logger:       logger.With("store", core.StoreBoard),
		Clock:        o.clock,
		ErrorHandler: o.errorHandler,
		EventBuffer:  buffer,
	})

	logger.Debug("app opened", "path", resolved, "preferences", o.backend, "read_only", readOnly, "airfields", cat.Len())
	return app, nil
}

func resolvePath(path string, o *options, logger *slog.Logger) (string, error) {
	if path == "" {
		def, err := DefaultDataDir()
		if err != nil {
			return "", err
		}
		path = def
	}

	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Injected documents never touch the path, and read-only is inherently safe.
	bypassSafety := isReadOnly || !devSafety || o.documents != nil
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataDir(path, useTemp)

	if IsDevRun() {
		switch {
		case !bypassSafety:
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		case isReadOnly:
			logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case !devSafety:
			logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if useTemp && resolved != filepath.Clean(path) {
		logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved, nil
}

func openCatalog(o *options) (*catalog.Catalog, error) {
	if o.airfields != nil {
		return catalog.New(o.airfields)
	}
	return catalog.Default()
}

func openPreferences(backend, dir string, readOnly bool, logger *slog.Logger) (core.Preferences, io.Closer, error) {
	switch backend {
	case "", PreferencesFile:
		return fs.NewPreferenceStore(fs.Config{Path: dir, ReadOnly: readOnly, Logger: logger}), nil, nil
	case PreferencesSQLite:
		if readOnly {
			return nil, nil, fmt.Errorf("sqlite preferences: %w", core.ErrReadOnly)
		}
		db, err := sqlite.Open(filepath.Join(dir, sqlite.FileName))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite preferences: %w", err)
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown preferences backend: %s", backend)
	}
}

// Close releases subscribers and any open database.
func (a *App) Close() error {
	a.Favourites.Close()
	a.Notes.Close()
	a.Board.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Err reports the most recent swallowed persistence failure of any store.
func (a *App) Err() error {
	return errors.Join(a.Favourites.Err(), a.Notes.Err(), a.Board.Err())
}

// AppState aggregates the state of every component.
type AppState struct {
	Path        string `json:"path"`
	ReadOnly    bool   `json:"read_only"`
	Airfields   int    `json:"airfields"`
	Favourites  any    `json:"favourites"`
	Notes       any    `json:"private_notes"`
	Board       any    `json:"public_board"`
	Documents   any    `json:"documents,omitempty"`
	Preferences string `json:"preferences"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	st := AppState{
		Path:        a.Path,
		ReadOnly:    a.ReadOnly,
		Airfields:   a.Catalog.Len(),
		Favourites:  a.Favourites.State(),
		Notes:       a.Notes.State(),
		Board:       a.Board.State(),
		Preferences: fmt.Sprintf("%T", a.Preferences),
	}
	if in, ok := a.Documents.(interface{ State() any }); ok {
		st.Documents = in.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}
