// Package core holds the domain types shared by the runways stores: the
// reference airfield model, private and public notes, the vote ledger entry,
// change events and the storage ports the adapters implement.
package core

import "fmt"

// EventType represents the kind of change a store made.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Store names carried by events.
const (
	StoreFavourites   = "favourites"
	StorePrivateNotes = "notes"
	StoreBoard        = "board"
	StoreVotes        = "votes"
	StoreConnectivity = "connectivity"
)

// Event represents a change in one of the stores.
type Event struct {
	Type      EventType
	Store     string
	ID        string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs and the watch command.
func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Store, e.ID)
}
