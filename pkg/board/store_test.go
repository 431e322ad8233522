package board_test

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aretw0/runways/pkg/adapters/fs"
	"github.com/aretw0/runways/pkg/adapters/memory"
	"github.com/aretw0/runways/pkg/board"
	"github.com/aretw0/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(t *testing.T, s *board.Store, id string) (int, int) {
	t.Helper()
	n, ok := s.Get(id)
	require.True(t, ok)
	return n.ThumbsUp, n.ThumbsDown
}

func TestStore_VoteMovesAndWithdraws(t *testing.T) {
	s := board.New(board.Config{Documents: memory.NewDocuments()})
	n := s.Add("EHAM", "Polderbaan taxi is long, plan fuel", core.CategoryTaxi)

	up, down := counts(t, s, n.ID)
	assert.Equal(t, [2]int{0, 0}, [2]int{up, down})

	s.Vote(n.ID, core.VoteUp)
	up, down = counts(t, s, n.ID)
	assert.Equal(t, [2]int{1, 0}, [2]int{up, down})
	dir, ok := s.CurrentVote(n.ID)
	assert.True(t, ok)
	assert.Equal(t, core.VoteUp, dir)

	s.Vote(n.ID, core.VoteDown)
	up, down = counts(t, s, n.ID)
	assert.Equal(t, [2]int{0, 1}, [2]int{up, down})
	dir, _ = s.CurrentVote(n.ID)
	assert.Equal(t, core.VoteDown, dir)

	s.RemoveVote(n.ID)
	up, down = counts(t, s, n.ID)
	assert.Equal(t, [2]int{0, 0}, [2]int{up, down})
	_, ok = s.CurrentVote(n.ID)
	assert.False(t, ok)
}

func TestStore_RepeatedVoteCountsOnce(t *testing.T) {
	s := board.New(board.Config{Documents: memory.NewDocuments()})
	n := s.Add("EGLL", "x", core.CategoryGeneral)

	s.Vote(n.ID, core.VoteUp)
	s.Vote(n.ID, core.VoteUp)
	up, down := counts(t, s, n.ID)
	assert.Equal(t, 1, up)
	assert.Zero(t, down)
}

func TestStore_CountersMatchLedger(t *testing.T) {
	s := board.New(board.Config{Documents: memory.NewDocuments()})
	var ids []string
	for range 4 {
		ids = append(ids, s.Add("KEWR", "note", core.CategoryApproach).ID)
	}

	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		id := ids[r.IntN(len(ids))]
		switch r.IntN(3) {
		case 0:
			s.Vote(id, core.VoteUp)
		case 1:
			s.Vote(id, core.VoteDown)
		default:
			s.RemoveVote(id)
		}

		for _, id := range ids {
			up, down := counts(t, s, id)
			require.GreaterOrEqual(t, up, 0)
			require.GreaterOrEqual(t, down, 0)
			require.LessOrEqual(t, up+down, 1)

			dir, ok := s.CurrentVote(id)
			switch {
			case !ok:
				require.Zero(t, up+down)
			case dir == core.VoteUp:
				require.Equal(t, 1, up)
			default:
				require.Equal(t, 1, down)
			}
		}
	}
}

func TestStore_NoOps(t *testing.T) {
	docs := memory.NewDocuments()
	s := board.New(board.Config{Documents: docs})
	n := s.Add("EGKK", "x", core.CategoryGeneral)
	require.Equal(t, 1, docs.Writes(board.NotesFile))
	require.Zero(t, docs.Writes(board.VotesFile))

	t.Run("remove without a vote writes nothing", func(t *testing.T) {
		s.RemoveVote(n.ID)
		s.RemoveVote(n.ID)
		assert.Equal(t, 1, docs.Writes(board.NotesFile))
		assert.Zero(t, docs.Writes(board.VotesFile))
	})

	t.Run("vote on an unknown note", func(t *testing.T) {
		s.Vote("missing", core.VoteUp)
		_, ok := s.CurrentVote("missing")
		assert.False(t, ok)
		assert.Zero(t, docs.Writes(board.VotesFile))
	})

	t.Run("invalid direction", func(t *testing.T) {
		s.Vote(n.ID, core.VoteDirection("sideways"))
		_, ok := s.CurrentVote(n.ID)
		assert.False(t, ok)
	})

	t.Run("removing twice equals removing once", func(t *testing.T) {
		s.Vote(n.ID, core.VoteDown)
		s.RemoveVote(n.ID)
		once := docs.Writes(board.VotesFile)
		s.RemoveVote(n.ID)
		assert.Equal(t, once, docs.Writes(board.VotesFile))
		up, down := counts(t, s, n.ID)
		assert.Zero(t, up+down)
	})
}

func TestStore_NotesOrderAndFilter(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := board.New(board.Config{Documents: memory.NewDocuments(), Clock: func() time.Time { return now }})

	first := s.Add("EGLL", "a", core.CategoryTaxi)
	second := s.Add("EGLL", "b", core.CategoryTaxi)
	now = now.Add(time.Hour)
	newest := s.Add("EGLL", "c", core.CategoryApproach)
	s.Add("EGKK", "d", core.CategoryTaxi)

	got := s.Notes("EGLL", nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{newest.ID, first.ID, second.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	taxi := core.CategoryTaxi
	for _, n := range s.Notes("EGLL", &taxi) {
		assert.Equal(t, core.CategoryTaxi, n.Category)
		assert.Equal(t, "EGLL", n.AirfieldID)
	}

	s.Vote(first.ID, core.VoteUp)
	voted, _ := s.Get(first.ID)
	assert.Equal(t, first.UpdatedAt, voted.UpdatedAt)
}

func TestStore_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	docs := fs.NewDocumentStore(fs.Config{Path: dir})
	require.NoError(t, docs.Initialize())

	s := board.New(board.Config{Documents: docs})
	a := s.Add("EGLL", "a", core.CategoryTaxi)
	b := s.Add("EGLL", "b", core.CategoryGeneral)
	s.Vote(b.ID, core.VoteDown)
	s.Vote(a.ID, core.VoteUp)

	again := board.New(board.Config{Documents: docs})
	up, _ := counts(t, again, a.ID)
	_, down := counts(t, again, b.ID)
	assert.Equal(t, 1, up)
	assert.Equal(t, 1, down)
	assert.Equal(t, s.Votes(), again.Votes())

	data, err := docs.Read(board.VotesFile)
	require.NoError(t, err)
	var ledger []map[string]any
	require.NoError(t, json.Unmarshal(data, &ledger))
	require.Len(t, ledger, 2)
	assert.Less(t, ledger[0]["noteId"], ledger[1]["noteId"])
	assert.Contains(t, []any{"up", "down"}, ledger[0]["vote"])
}

func TestStore_FilesLoadIndependently(t *testing.T) {
	docs := memory.NewDocuments()
	docs.Put(board.NotesFile, []byte(`[{"id":"n1","airfieldId":"EGLL","content":"hi","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z","thumbsUp":1}]`))
	docs.Put(board.VotesFile, []byte(`not json`))

	var reported []error
	s := board.New(board.Config{Documents: docs, ErrorHandler: func(err error) { reported = append(reported, err) }})

	n, ok := s.Get("n1")
	require.True(t, ok)
	assert.Equal(t, core.CategoryGeneral, n.Category)
	assert.Equal(t, 1, n.ThumbsUp)
	assert.Empty(t, s.Votes())
	assert.Len(t, reported, 1)
}

func TestStore_DuplicateLedgerEntriesLastWins(t *testing.T) {
	docs := memory.NewDocuments()
	docs.Put(board.NotesFile, []byte(`[{"id":"n1","airfieldId":"EGLL","content":"hi","thumbsDown":1}]`))
	docs.Put(board.VotesFile, []byte(`[
		{"noteId":"n1","vote":"up","updatedAt":"2026-01-01T00:00:00Z"},
		{"noteId":"n1","vote":"down","updatedAt":"2026-01-02T00:00:00Z"}
	]`))

	s := board.New(board.Config{Documents: docs})
	dir, ok := s.CurrentVote("n1")
	require.True(t, ok)
	assert.Equal(t, core.VoteDown, dir)
}

func TestStore_InconsistentCountersNeverGoNegative(t *testing.T) {
	docs := memory.NewDocuments()
	docs.Put(board.NotesFile, []byte(`[{"id":"n1","airfieldId":"EGLL","content":"hi"}]`))
	docs.Put(board.VotesFile, []byte(`[{"noteId":"n1","vote":"up","updatedAt":"2026-01-01T00:00:00Z"}]`))

	s := board.New(board.Config{Documents: docs})
	s.RemoveVote("n1")
	up, down := counts(t, s, "n1")
	assert.Zero(t, up)
	assert.Zero(t, down)
}

func TestStore_RemoveVoteOnUnknownNoteKeepsLedger(t *testing.T) {
	docs := memory.NewDocuments()
	docs.Put(board.NotesFile, []byte(`[]`))
	docs.Put(board.VotesFile, []byte(`[{"noteId":"ghost","vote":"up","updatedAt":"2026-01-01T00:00:00Z"}]`))

	s := board.New(board.Config{Documents: docs})
	s.RemoveVote("ghost")

	dir, ok := s.CurrentVote("ghost")
	require.True(t, ok)
	assert.Equal(t, core.VoteUp, dir)
	assert.Zero(t, docs.Writes(board.NotesFile))
	assert.Zero(t, docs.Writes(board.VotesFile))
}

func TestStore_WriteFailureIsSwallowed(t *testing.T) {
	docs := memory.NewDocuments()
	s := board.New(board.Config{Documents: docs})
	n := s.Add("EGLL", "hi", core.CategoryGeneral)

	docs.SetFailWrites(errors.New("disk full"))
	assert.NotPanics(t, func() { s.Vote(n.ID, core.VoteUp) })
	assert.ErrorContains(t, s.Err(), "disk full")
	up, _ := counts(t, s, n.ID)
	assert.Equal(t, 1, up)

	docs.SetFailWrites(nil)
	s.RemoveVote(n.ID)
	assert.NoError(t, s.Err())
}

func TestStore_PublishesEvents(t *testing.T) {
	s := board.New(board.Config{Documents: memory.NewDocuments()})
	events, cancel := s.Subscribe()
	defer cancel()

	n := s.Add("EGLL", "hi", core.CategoryGeneral)
	s.Vote(n.ID, core.VoteUp)
	s.Vote(n.ID, core.VoteDown)
	s.RemoveVote(n.ID)

	want := []struct {
		typ   core.EventType
		store string
	}{
		{core.EventCreate, core.StoreBoard},
		{core.EventCreate, core.StoreVotes},
		{core.EventModify, core.StoreVotes},
		{core.EventDelete, core.StoreVotes},
	}
	for _, w := range want {
		e := <-events
		assert.Equal(t, w.typ, e.Type)
		assert.Equal(t, w.store, e.Store)
		assert.Equal(t, n.ID, e.ID)
	}
}
