// Package typed provides a best-effort, type-safe view of a JSON array
// document held in a core.DocumentStore.
package typed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/runways/pkg/core"
)

// Collection loads and saves a whole []T as one JSON document. Failures are
// never returned to the store's callers: they are logged, handed to the
// error handler and remembered for Err.
type Collection[T any] struct {
	store   core.DocumentStore
	name    string
	logger  *slog.Logger
	onError core.ErrorHandler

	mu      sync.Mutex
	lastErr error
	loaded  int
	saved   int
}

// NewCollection creates a collection bound to the named document. A nil
// logger discards output.
func NewCollection[T any](store core.DocumentStore, name string, logger *slog.Logger, onError core.ErrorHandler) *Collection[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collection[T]{
		store:   store,
		name:    name,
		logger:  logger,
		onError: onError,
	}
}

// Name is the document name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads the document. A missing document yields an empty list; a
// document that cannot be read or decoded also yields an empty list and is
// reported.
func (c *Collection[T]) Load() []T {
	data, err := c.store.Read(c.name)
	if errors.Is(err, core.ErrNotFound) {
		c.logger.Debug("document not found, starting empty", "document", c.name)
		return []T{}
	}
	if err != nil {
		c.report(fmt.Errorf("failed to read %s: %w", c.name, err), slog.LevelWarn)
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.report(fmt.Errorf("failed to parse %s: %w", c.name, err), slog.LevelWarn)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	c.loaded = len(items)
	c.mu.Unlock()

	c.logger.Debug("document loaded", "document", c.name, "count", len(items))
	return items
}

// Save writes the full list. The error is returned for the owning store's
// bookkeeping; it has already been reported.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		err = fmt.Errorf("failed to encode %s: %w", c.name, err)
		c.report(err, slog.LevelError)
		return err
	}
	if err := c.store.Write(c.name, data); err != nil {
		err = fmt.Errorf("failed to write %s: %w", c.name, err)
		c.report(err, slog.LevelError)
		return err
	}

	c.mu.Lock()
	c.lastErr = nil
	c.saved++
	c.mu.Unlock()
	return nil
}

// Err returns the most recent failure, or nil once a save has succeeded.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Collection[T]) report(err error, level slog.Level) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	c.logger.Log(context.Background(), level, "best-effort persistence failure", "document", c.name, "error", err)
	if c.onError != nil {
		c.onError(err)
	}
}

// CollectionState exposes the collection for observability.
type CollectionState struct {
	Document  string `json:"document"`
	Loaded    int    `json:"loaded"`
	Saves     int    `json:"saves"`
	LastError string `json:"last_error,omitempty"`
}

// State reports load/save counters and the last failure.
func (c *Collection[T]) State() CollectionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := CollectionState{Document: c.name, Loaded: c.loaded, Saves: c.saved}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}
