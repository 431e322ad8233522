package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/runways/pkg/core"
)

// DefaultDebounce is the window used to coalesce editor and atomic-rename bursts.
const DefaultDebounce = 50 * time.Millisecond

// storeFiles maps data file names to the store that owns them.
var storeFiles = map[string]string{
	PreferenceFile:           core.StoreFavourites,
	"private_notes.json":     core.StorePrivateNotes,
	"public_notes.json":      core.StoreBoard,
	"public_note_votes.json": core.StoreVotes,
}

// StoreFor returns the store owning a data file, or "" for foreign files.
func StoreFor(name string) string {
	return storeFiles[filepath.Base(name)]
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Path         string
	Pattern      string // doublestar pattern relative to Path, default "*.json"
	Debounce     time.Duration
	Buffer       int
	Logger       *slog.Logger
	ErrorHandler core.ErrorHandler
}

// Watcher reports changes made to the data directory by other processes or
// by hand. Events are emitted on Events until the watcher stops, at which
// point the channel is closed.
type Watcher struct {
	*worker.BaseWorker
	config    WatcherConfig
	logger    *slog.Logger
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	mu      sync.Mutex
	known   map[string]bool
	emitted int
	active  bool
}

// NewWatcher creates a stopped watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Pattern == "" {
		config.Pattern = "*.json"
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Buffer <= 0 {
		config.Buffer = core.DefaultEventBuffer
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		config:     config,
		logger:     logger,
		events:     make(chan core.Event, config.Buffer),
		known:      make(map[string]bool),
	}
}

// Events is closed once the watcher has stopped.
func (w *Watcher) Events() <-chan core.Event {
	return w.events
}

// Start validates the pattern, begins watching and returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}
	if !doublestar.ValidatePattern(w.config.Pattern) {
		return fmt.Errorf("invalid watch pattern %q", w.config.Pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.config.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.config.Path, err)
	}
	w.seedKnown()

	w.watcher = watcher
	w.debouncer = newDebouncer(w.config.Debounce)
	w.setActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the event loop.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

// State reports the worker state.
func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.config.Path,
			"pattern":           w.config.Pattern,
		}
	})
}

// Active reports whether the event loop is running.
func (w *Watcher) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// seedKnown records files present at start so a later rename over them
// reads as a modification.
func (w *Watcher) seedKnown() {
	entries, err := os.ReadDir(w.config.Path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		if !e.IsDir() {
			w.known[e.Name()] = true
		}
	}
}

func (w *Watcher) shouldIgnore(name string) bool {
	if IsTempFile(name) {
		return true
	}
	rel, err := filepath.Rel(w.config.Path, name)
	if err != nil {
		return true
	}
	matched, err := doublestar.Match(w.config.Pattern, filepath.ToSlash(rel))
	return err != nil || !matched
}

func (w *Watcher) mapEventType(event fsnotify.Event, rel string) core.EventType {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.known, rel)
		return core.EventDelete
	case event.Has(fsnotify.Create):
		if w.known[rel] {
			return core.EventModify
		}
		w.known[rel] = true
		return core.EventCreate
	case event.Has(fsnotify.Write):
		w.known[rel] = true
		return core.EventModify
	}
	return ""
}

func (w *Watcher) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if w.shouldIgnore(event.Name) {
		return false
	}
	rel := filepath.ToSlash(mustRel(w.config.Path, event.Name))
	eType := w.mapEventType(event, rel)
	if eType == "" {
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Store:     StoreFor(rel),
		ID:        rel,
		Timestamp: time.Now().Unix(),
	})
	return true
}

func mustRel(base, name string) string {
	rel, err := filepath.Rel(base, name)
	if err != nil {
		return filepath.Base(name)
	}
	return rel
}

func (w *Watcher) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		select {
		case w.events <- e:
			w.mu.Lock()
			w.emitted++
			w.mu.Unlock()
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) handleWatcherError(err error) {
	w.logger.Error("fsnotify error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	// Timers must finish before the events channel closes.
	defer w.debouncer.stopAndWait(5 * time.Second)
	defer w.setActive(false)
	defer w.watcher.Close()

	return w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
