// Package favourites keeps the set of airfields the user starred. The set is
// held in memory and written to a preference key on every change.
package favourites

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/runways/pkg/core"
)

// PreferenceKey is the preference key holding the JSON list of airfield IDs.
const PreferenceKey = "RunwaysApp.FavouriteAirfieldIds"

// Config holds the dependencies of a Store. ErrorHandler runs with the store
// locked and must not call back into it.
type Config struct {
	Preferences  core.Preferences
	Logger       *slog.Logger
	ErrorHandler core.ErrorHandler
	EventBuffer  int
}

// Store is the favourites set. Mutators never fail; persistence errors are
// logged, passed to the error handler and kept for Err.
type Store struct {
	prefs   core.Preferences
	logger  *slog.Logger
	onError core.ErrorHandler
	broker  *core.Broker

	mu      sync.RWMutex
	ids     map[string]struct{}
	lastErr error
	saves   int
}

// New loads the persisted set. A missing or unreadable value starts empty.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		prefs:   cfg.Preferences,
		logger:  logger,
		onError: cfg.ErrorHandler,
		broker:  core.NewBroker(cfg.EventBuffer),
		ids:     make(map[string]struct{}),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.prefs.Get(PreferenceKey)
	if err != nil {
		s.report(fmt.Errorf("failed to read favourites: %w", err), slog.LevelWarn)
		return
	}
	if !ok {
		s.logger.Debug("no favourites stored, starting empty", "key", PreferenceKey)
		return
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		s.report(fmt.Errorf("failed to parse favourites: %w", err), slog.LevelWarn)
		return
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	s.logger.Debug("favourites loaded", "count", len(s.ids))
}

// IsFavourite reports membership.
func (s *Store) IsFavourite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership and persists.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	_, on := s.ids[id]
	eType := s.apply(id, !on)
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: eType, Store: core.StoreFavourites, ID: id})
}

// SetFavourite sets membership to on and persists, even when nothing changed.
func (s *Store) SetFavourite(id string, on bool) {
	s.mu.Lock()
	eType := s.apply(id, on)
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: eType, Store: core.StoreFavourites, ID: id})
}

// apply must be called with mu held.
func (s *Store) apply(id string, on bool) core.EventType {
	_, was := s.ids[id]
	switch {
	case on && !was:
		s.ids[id] = struct{}{}
		return core.EventCreate
	case !on && was:
		delete(s.ids, id)
		return core.EventDelete
	}
	return core.EventModify
}

// IDs returns the favourites sorted.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Len is the set size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Membership adapts the store to a list filter predicate.
func (s *Store) Membership() func(id string) bool {
	return s.IsFavourite
}

func (s *Store) sortedLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(s.sortedLocked())
	if err != nil {
		s.reportLocked(fmt.Errorf("failed to encode favourites: %w", err), slog.LevelError)
		return
	}
	if err := s.prefs.Set(PreferenceKey, data); err != nil {
		s.reportLocked(fmt.Errorf("failed to write favourites: %w", err), slog.LevelError)
		return
	}
	s.lastErr = nil
	s.saves++
}

func (s *Store) report(err error, level slog.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportLocked(err, level)
}

func (s *Store) reportLocked(err error, level slog.Level) {
	s.lastErr = err
	s.logger.Log(context.Background(), level, "best-effort persistence failure", "key", PreferenceKey, "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}

// Err returns the last persistence failure, nil after a successful write.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe streams change events until cancel is called.
func (s *Store) Subscribe() (<-chan core.Event, func()) {
	return s.broker.Subscribe()
}

// Close releases subscribers.
func (s *Store) Close() {
	s.broker.Close()
}

// State describes the store for observability.
type State struct {
	Key       string           `json:"key"`
	Count     int              `json:"count"`
	Saves     int              `json:"saves"`
	LastError string           `json:"last_error,omitempty"`
	Events    core.BrokerState `json:"events"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	st := State{Key: PreferenceKey, Count: len(s.ids), Saves: s.saves}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()
	st.Events = s.broker.State()
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "favourites"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
