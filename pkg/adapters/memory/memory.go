// Package memory implements the storage ports in memory. It backs tests and
// the read-only demo mode of the CLI.
package memory

import (
	"fmt"
	"maps"
	"sync"

	"github.com/aretw0/runways/pkg/core"
)

// Documents is an in-memory core.DocumentStore. Setting FailWrites makes every
// Write fail, which is how tests exercise best-effort persistence.
type Documents struct {
	mu         sync.Mutex
	docs       map[string][]byte
	writes     map[string]int
	FailWrites error
	FailReads  error
}

// NewDocuments creates an empty store.
func NewDocuments() *Documents {
	return &Documents{
		docs:   make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Read implements core.DocumentStore.
func (d *Documents) Read(name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailReads != nil {
		return nil, d.FailReads
	}
	data, ok := d.docs[name]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", name, core.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Write implements core.DocumentStore.
func (d *Documents) Write(name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailWrites != nil {
		return d.FailWrites
	}
	d.docs[name] = append([]byte(nil), data...)
	d.writes[name]++
	return nil
}

// Put seeds a document without counting it as a write.
func (d *Documents) Put(name string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[name] = append([]byte(nil), data...)
}

// Writes reports how many successful writes a document received.
func (d *Documents) Writes(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes[name]
}

// SetFailWrites toggles write failures.
func (d *Documents) SetFailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.FailWrites = err
}

// Preferences is an in-memory core.Preferences.
type Preferences struct {
	mu         sync.Mutex
	values     map[string][]byte
	FailWrites error
}

// NewPreferences creates an empty preference store.
func NewPreferences() *Preferences {
	return &Preferences{values: make(map[string][]byte)}
}

// Get implements core.Preferences.
func (p *Preferences) Get(key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return append([]byte(nil), v...), ok, nil
}

// Set implements core.Preferences.
func (p *Preferences) Set(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWrites != nil {
		return p.FailWrites
	}
	p.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements core.Preferences.
func (p *Preferences) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWrites != nil {
		return p.FailWrites
	}
	delete(p.values, key)
	return nil
}

// Snapshot copies the current values.
func (p *Preferences) Snapshot() map[string][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.values)
}

var (
	_ core.DocumentStore = (*Documents)(nil)
	_ core.Preferences   = (*Preferences)(nil)
)
