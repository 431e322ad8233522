package core

// DocumentStore persists whole named documents (e.g. "private_notes.json").
// Implementations are synchronous: there is no cancellation for local file
// operations, so no context is passed.
type DocumentStore interface {
	// Read returns the document bytes, or an error wrapping ErrNotFound when
	// the document has never been written.
	Read(name string) ([]byte, error)

	// Write replaces the document. Implementations must not leave a partially
	// written document behind on failure.
	Write(name string, data []byte) error
}

// Preferences is a small key-value store for device preferences. Values are
// opaque JSON-encoded bytes.
type Preferences interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// ErrorHandler receives failures a best-effort store swallowed.
type ErrorHandler func(error)
