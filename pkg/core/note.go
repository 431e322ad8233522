package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PrivateNote is a note the user keeps for themselves on an airfield.
type PrivateNote struct {
	ID         string       `json:"id"`
	AirfieldID string       `json:"airfieldId"`
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	Category   NoteCategory `json:"category"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// privateNoteRecord is the union of the current and the legacy content-only
// layouts of a private note.
type privateNoteRecord struct {
	ID         string          `json:"id"`
	AirfieldID string          `json:"airfieldId"`
	Title      *string         `json:"title"`
	Body       *string         `json:"body"`
	Content    *string         `json:"content"`
	Category   *NoteCategory   `json:"category"`
	CreatedAt  json.RawMessage `json:"createdAt"`
	UpdatedAt  json.RawMessage `json:"updatedAt"`
}

// UnmarshalJSON reads the current layout first and falls back to the legacy
// layout that only carried "content". Encoding always uses the current layout.
func (n *PrivateNote) UnmarshalJSON(data []byte) error {
	var rec privateNoteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	out := PrivateNote{
		ID:         rec.ID,
		AirfieldID: rec.AirfieldID,
		Category:   CategoryGeneral,
	}
	if rec.Category != nil {
		out.Category = *rec.Category
	}

	switch {
	case rec.Title != nil || rec.Body != nil:
		if rec.Title != nil {
			out.Title = *rec.Title
		}
		if rec.Body != nil {
			out.Body = *rec.Body
		}
	case rec.Content != nil:
		out.Title = LegacyTitle(*rec.Content)
		out.Body = *rec.Content
	}

	var err error
	if out.CreatedAt, err = decodeTime(rec.CreatedAt); err != nil {
		return fmt.Errorf("note %s createdAt: %w", rec.ID, err)
	}
	if out.UpdatedAt, err = decodeTime(rec.UpdatedAt); err != nil {
		return fmt.Errorf("note %s updatedAt: %w", rec.ID, err)
	}

	*n = out
	return nil
}

// LegacyTitle derives a title from content-only notes: the trimmed first line.
func LegacyTitle(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(first)
}

// PublicNote is a note posted to the pilot board of an airfield.
type PublicNote struct {
	ID         string       `json:"id"`
	AirfieldID string       `json:"airfieldId"`
	Content    string       `json:"content"`
	Category   NoteCategory `json:"category"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	ThumbsUp   int          `json:"thumbsUp"`
	ThumbsDown int          `json:"thumbsDown"`
}

// UnmarshalJSON defaults a missing category to general and missing or
// negative counters to zero.
func (n *PublicNote) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID         string          `json:"id"`
		AirfieldID string          `json:"airfieldId"`
		Content    string          `json:"content"`
		Category   *NoteCategory   `json:"category"`
		CreatedAt  json.RawMessage `json:"createdAt"`
		UpdatedAt  json.RawMessage `json:"updatedAt"`
		ThumbsUp   int             `json:"thumbsUp"`
		ThumbsDown int             `json:"thumbsDown"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	out := PublicNote{
		ID:         rec.ID,
		AirfieldID: rec.AirfieldID,
		Content:    rec.Content,
		Category:   CategoryGeneral,
		ThumbsUp:   max(rec.ThumbsUp, 0),
		ThumbsDown: max(rec.ThumbsDown, 0),
	}
	if rec.Category != nil {
		out.Category = *rec.Category
	}

	var err error
	if out.CreatedAt, err = decodeTime(rec.CreatedAt); err != nil {
		return fmt.Errorf("public note %s createdAt: %w", rec.ID, err)
	}
	if out.UpdatedAt, err = decodeTime(rec.UpdatedAt); err != nil {
		return fmt.Errorf("public note %s updatedAt: %w", rec.ID, err)
	}

	*n = out
	return nil
}

// Score is thumbs up minus thumbs down.
func (n PublicNote) Score() int {
	return n.ThumbsUp - n.ThumbsDown
}

// VoteDirection is the way a device voted on a public note.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection accepts "up" and "down".
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch d := VoteDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case VoteUp, VoteDown:
		return d, nil
	}
	return "", fmt.Errorf("invalid vote direction %q", s)
}

// UnmarshalJSON rejects anything but "up" and "down".
func (d *VoteDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVoteDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Vote is one entry of the per-device vote ledger. There is at most one
// entry per note.
type Vote struct {
	NoteID    string        `json:"noteId"`
	Direction VoteDirection `json:"vote"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// UnmarshalJSON accepts both timestamp encodings.
func (v *Vote) UnmarshalJSON(data []byte) error {
	var rec struct {
		NoteID    string          `json:"noteId"`
		Direction VoteDirection   `json:"vote"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.Direction == "" {
		return fmt.Errorf("vote for %s has no direction", rec.NoteID)
	}
	updated, err := decodeTime(rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("vote %s updatedAt: %w", rec.NoteID, err)
	}
	*v = Vote{NoteID: rec.NoteID, Direction: rec.Direction, UpdatedAt: updated}
	return nil
}
