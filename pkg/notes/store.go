// Package notes is the private notes store: free-form notes a pilot keeps on
// an airfield, persisted as one JSON array document.
//
// Files written by earlier releases stored a single "content" string per
// note. Those records are upgraded on read (title is the first line of the
// content, body the full content, category general) and rewritten in the
// current layout on the next change.
package notes

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/runways/pkg/core"
	"github.com/aretw0/runways/pkg/typed"
)

// FileName is the document holding every private note.
const FileName = "private_notes.json"

// Config holds the dependencies of a Store.
type Config struct {
	Documents    core.DocumentStore
	Logger       *slog.Logger
	Clock        func() time.Time
	ErrorHandler core.ErrorHandler
	EventBuffer  int
}

// Store holds every private note in memory, in insertion order.
type Store struct {
	docs   *typed.Collection[core.PrivateNote]
	logger *slog.Logger
	clock  func() time.Time
	broker *core.Broker

	mu    sync.RWMutex
	notes []core.PrivateNote
}

// New loads the notes document. Missing or unreadable files start empty.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		docs:   typed.NewCollection[core.PrivateNote](cfg.Documents, FileName, logger, cfg.ErrorHandler),
		logger: logger,
		clock:  clock,
		broker: core.NewBroker(cfg.EventBuffer),
	}
	s.notes = s.docs.Load()
	return s
}

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

// Notes returns the notes of an airfield, most recently updated first. A
// nil category returns every category. Equal timestamps keep insertion order.
func (s *Store) Notes(airfieldID string, category *core.NoteCategory) []core.PrivateNote {
	s.mu.RLock()
	out := make([]core.PrivateNote, 0)
	for _, n := range s.notes {
		if n.AirfieldID != airfieldID {
			continue
		}
		if category != nil && n.Category != *category {
			continue
		}
		out = append(out, n)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b core.PrivateNote) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// AirfieldIDsWithNotes is the set of airfields carrying at least one note.
func (s *Store) AirfieldIDsWithNotes() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{})
	for _, n := range s.notes {
		ids[n.AirfieldID] = struct{}{}
	}
	return ids
}

// HasNotes adapts the store to a list filter predicate.
func (s *Store) HasNotes(airfieldID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.notes, func(n core.PrivateNote) bool {
		return n.AirfieldID == airfieldID
	})
}

// Get finds a note by ID.
func (s *Store) Get(id string) (core.PrivateNote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.notes[i], true
	}
	return core.PrivateNote{}, false
}

// All returns every note in insertion order.
func (s *Store) All() []core.PrivateNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Add creates a note stamped with the current time and persists the list.
// An unknown category is stored as general.
func (s *Store) Add(airfieldID, title, body string, category core.NoteCategory) core.PrivateNote {
	if !category.Valid() {
		category = core.CategoryGeneral
	}
	now := s.now()
	note := core.PrivateNote{
		ID:         uuid.NewString(),
		AirfieldID: airfieldID,
		Title:      title,
		Body:       body,
		Category:   category,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: core.EventCreate, Store: core.StorePrivateNotes, ID: note.ID, Timestamp: now.Unix()})
	return note
}

// Update replaces title, body and category of the note with note.ID and
// refreshes its UpdatedAt. An unknown note is ignored.
func (s *Store) Update(note core.PrivateNote, title, body string, category core.NoteCategory) {
	if !category.Valid() {
		category = core.CategoryGeneral
	}

	s.mu.Lock()
	i := s.indexLocked(note.ID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update of unknown note ignored", "id", note.ID)
		return
	}
	now := s.now()
	s.notes[i].Title = title
	s.notes[i].Body = body
	s.notes[i].Category = category
	s.notes[i].UpdatedAt = now
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: core.EventModify, Store: core.StorePrivateNotes, ID: note.ID, Timestamp: now.Unix()})
}

// Delete removes the note with note.ID. The list is persisted even when the
// note was not found.
func (s *Store) Delete(note core.PrivateNote) {
	s.mu.Lock()
	i := s.indexLocked(note.ID)
	if i >= 0 {
		s.notes = slices.Delete(s.notes, i, i+1)
	} else {
		s.logger.Debug("delete of unknown note", "id", note.ID)
	}
	s.persistLocked()
	s.mu.Unlock()

	if i >= 0 {
		s.broker.Publish(core.Event{Type: core.EventDelete, Store: core.StorePrivateNotes, ID: note.ID})
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.notes, func(n core.PrivateNote) bool { return n.ID == id })
}

// persistLocked writes the full list. Failures are reported by the collection.
func (s *Store) persistLocked() {
	_ = s.docs.Save(s.notes)
}

// Err returns the last persistence failure, nil after a successful write.
func (s *Store) Err() error {
	return s.docs.Err()
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
	Notes     int                   `json:"notes"`
	Airfields int                   `json:"airfields"`
	Document  typed.CollectionState `json:"document"`
	Events    core.BrokerState      `json:"events"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return State{
		Notes:     len(s.All()),
		Airfields: len(s.AirfieldIDsWithNotes()),
		Document:  s.docs.State(),
		Events:    s.broker.State(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "private-notes"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
