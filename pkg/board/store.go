// Package board is the public pilot board: notes anyone can post on an
// airfield, and this device's one-vote-per-note ledger.
//
// Notes and ledger are separate documents loaded independently. Counters on
// a note always equal the number of ledger entries pointing at it in that
// direction, provided both writes of a vote succeed.
package board

import (
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/runways/pkg/core"
	"github.com/aretw0/runways/pkg/typed"
)

const (
	// NotesFile holds the public notes.
	NotesFile = "public_notes.json"
	// VotesFile holds the vote ledger.
	VotesFile = "public_note_votes.json"
)

// Config holds the dependencies of a Store.
type Config struct {
	Documents    core.DocumentStore
	Logger       *slog.Logger
	Clock        func() time.Time
	ErrorHandler core.ErrorHandler
	EventBuffer  int
}

// Store holds the public notes and the vote ledger in memory.
type Store struct {
	notesDoc *typed.Collection[core.PublicNote]
	votesDoc *typed.Collection[core.Vote]
	logger   *slog.Logger
	clock    func() time.Time
	broker   *core.Broker

	mu    sync.RWMutex
	notes []core.PublicNote
	votes map[string]core.Vote
}

// New loads both documents.
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
		notesDoc: typed.NewCollection[core.PublicNote](cfg.Documents, NotesFile, logger, cfg.ErrorHandler),
		votesDoc: typed.NewCollection[core.Vote](cfg.Documents, VotesFile, logger, cfg.ErrorHandler),
		logger:   logger,
		clock:    clock,
		broker:   core.NewBroker(cfg.EventBuffer),
		votes:    make(map[string]core.Vote),
	}
	s.notes = s.notesDoc.Load()
	for _, v := range s.votesDoc.Load() {
		// later entries win
		s.votes[v.NoteID] = v
	}
	return s
}

// Notes returns the notes of an airfield, newest first. A nil category
// returns every category. Equal timestamps keep insertion order.
func (s *Store) Notes(airfieldID string, category *core.NoteCategory) []core.PublicNote {
	s.mu.RLock()
	out := make([]core.PublicNote, 0)
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

	slices.SortStableFunc(out, func(a, b core.PublicNote) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Get finds a note by ID.
func (s *Store) Get(id string) (core.PublicNote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.notes[i], true
	}
	return core.PublicNote{}, false
}

// Add posts a note with zero votes. Only the notes document is rewritten.
func (s *Store) Add(airfieldID, content string, category core.NoteCategory) core.PublicNote {
	if !category.Valid() {
		category = core.CategoryGeneral
	}
	now := s.clock().UTC()
	note := core.PublicNote{
		ID:         uuid.NewString(),
		AirfieldID: airfieldID,
		Content:    content,
		Category:   category,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.notes = append(s.notes, note)
	_ = s.notesDoc.Save(s.notes)
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: core.EventCreate, Store: core.StoreBoard, ID: note.ID, Timestamp: now.Unix()})
	return note
}

// Vote records direction as this device's vote on noteID, moving a previous
// vote if there was one. Unknown notes and directions are ignored.
func (s *Store) Vote(noteID string, direction core.VoteDirection) {
	if direction != core.VoteUp && direction != core.VoteDown {
		s.logger.Debug("vote with invalid direction ignored", "note", noteID, "direction", direction)
		return
	}

	s.mu.Lock()
	i := s.indexLocked(noteID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("vote on unknown note ignored", "note", noteID)
		return
	}
	eType := core.EventCreate
	if prev, ok := s.votes[noteID]; ok {
		eType = core.EventModify
		s.adjustLocked(i, prev.Direction, -1)
	}
	s.adjustLocked(i, direction, +1)
	now := s.clock().UTC()
	s.votes[noteID] = core.Vote{NoteID: noteID, Direction: direction, UpdatedAt: now}
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: eType, Store: core.StoreVotes, ID: noteID, Timestamp: now.Unix()})
}

// RemoveVote withdraws this device's vote on noteID. Without a vote, or
// when the note itself is unknown, nothing is written and the ledger keeps
// its entry.
func (s *Store) RemoveVote(noteID string) {
	s.mu.Lock()
	prev, ok := s.votes[noteID]
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("no vote to remove", "note", noteID)
		return
	}
	i := s.indexLocked(noteID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("vote removal on unknown note ignored", "note", noteID)
		return
	}
	s.adjustLocked(i, prev.Direction, -1)
	delete(s.votes, noteID)
	s.persistLocked()
	s.mu.Unlock()

	s.broker.Publish(core.Event{Type: core.EventDelete, Store: core.StoreVotes, ID: noteID})
}

// CurrentVote is this device's vote on noteID, if any.
func (s *Store) CurrentVote(noteID string) (core.VoteDirection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.votes[noteID]
	return v.Direction, ok
}

// Votes returns the ledger sorted by note ID.
func (s *Store) Votes() []core.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledgerLocked()
}

// adjustLocked moves a counter by delta, never below zero.
func (s *Store) adjustLocked(i int, d core.VoteDirection, delta int) {
	n := &s.notes[i]
	switch d {
	case core.VoteUp:
		n.ThumbsUp = max(n.ThumbsUp+delta, 0)
	case core.VoteDown:
		n.ThumbsDown = max(n.ThumbsDown+delta, 0)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.notes, func(n core.PublicNote) bool { return n.ID == id })
}

func (s *Store) ledgerLocked() []core.Vote {
	out := make([]core.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		out = append(out, v)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].NoteID < out[b].NoteID })
	return out
}

// persistLocked writes the notes first, then the ledger. A failure of the
// first write does not skip the second.
func (s *Store) persistLocked() {
	_ = s.notesDoc.Save(s.notes)
	_ = s.votesDoc.Save(s.ledgerLocked())
}

// Err returns the most recent persistence failure of either document.
func (s *Store) Err() error {
	if err := s.votesDoc.Err(); err != nil {
		return err
	}
	return s.notesDoc.Err()
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
	Votes     int                   `json:"votes"`
	NotesDoc  typed.CollectionState `json:"notes_document"`
	LedgerDoc typed.CollectionState `json:"ledger_document"`
	Events    core.BrokerState      `json:"events"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	st := State{Notes: len(s.notes), Votes: len(s.votes)}
	s.mu.RUnlock()
	st.NotesDoc = s.notesDoc.State()
	st.LedgerDoc = s.votesDoc.State()
	st.Events = s.broker.State()
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "public-board"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
