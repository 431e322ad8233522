package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/runways/pkg/core"
)

// PreferenceFile is the file holding every preference key.
const PreferenceFile = "preferences.json"

// PreferenceStore implements core.Preferences as one JSON object on disk,
// each key mapping to its raw JSON value. The object is re-read on every Get
// so that separate processes observe each other's writes.
type PreferenceStore struct {
	path     string
	readOnly bool
	logger   *slog.Logger

	mu sync.Mutex
}

// NewPreferenceStore creates a store inside config.Path.
func NewPreferenceStore(config Config) *PreferenceStore {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PreferenceStore{
		path:     filepath.Join(config.Path, PreferenceFile),
		readOnly: config.ReadOnly,
		logger:   logger,
	}
}

// Path is the location of the preference file.
func (p *PreferenceStore) Path() string {
	return p.path
}

// load reads the object. A missing or corrupt file is treated as empty so
// the store self-heals on the next Set.
func (p *PreferenceStore) load() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)

	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		p.logger.Warn("preferences file is corrupt, starting fresh", "path", p.path, "error", err)
		return make(map[string]json.RawMessage), nil
	}
	return values, nil
}

func (p *PreferenceStore) save(values map[string]json.RawMessage) error {
	if p.readOnly {
		return fmt.Errorf("cannot write preferences: %w", core.ErrReadOnly)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	return writeFileAtomic(p.path, data, 0o644)
}

// Get implements core.Preferences.
func (p *PreferenceStore) Get(key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	return []byte(v), ok, nil
}

// Set implements core.Preferences. The value must be valid JSON.
func (p *PreferenceStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("preference %s: value is not valid JSON", key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return err
	}
	values[key] = json.RawMessage(append([]byte(nil), value...))
	return p.save(values)
}

// Delete implements core.Preferences. Deleting an absent key is not an error.
func (p *PreferenceStore) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return p.save(values)
}

// Keys lists the stored keys in order.
func (p *PreferenceStore) Keys() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ core.Preferences = (*PreferenceStore)(nil)
