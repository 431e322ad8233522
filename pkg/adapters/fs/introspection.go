package fs

import (
	"github.com/aretw0/introspection"
)

// DocumentStoreState exposes internal state for observability.
type DocumentStoreState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Reads    int    `json:"reads"`
	Writes   int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *DocumentStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return DocumentStoreState{
		Path:     s.Path,
		ReadOnly: s.config.ReadOnly,
		Reads:    s.reads,
		Writes:   s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *DocumentStore) ComponentType() string {
	return "document-store"
}

// WatcherState summarises a watcher for status output.
type WatcherState struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
	Active  bool   `json:"active"`
	Known   int    `json:"known_files"`
	Emitted int    `json:"emitted"`
}

// Snapshot reports the watcher without the worker bookkeeping.
func (w *Watcher) Snapshot() WatcherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WatcherState{
		Path:    w.config.Path,
		Pattern: w.config.Pattern,
		Active:  w.active,
		Known:   len(w.known),
		Emitted: w.emitted,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "watcher"
}

var _ introspection.Introspectable = (*DocumentStore)(nil)
var _ introspection.Component = (*DocumentStore)(nil)
