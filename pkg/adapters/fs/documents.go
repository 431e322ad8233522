// Package fs stores runways data as plain files in a single directory.
package fs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/runways/pkg/core"
)

// Config holds the configuration for the filesystem adapter.
type Config struct {
	Path      string
	ReadOnly  bool
	MustExist bool
	Logger    *slog.Logger
}

// DocumentStore implements core.DocumentStore with one file per document.
// Context is not passed here as these are blocking local file operations.
type DocumentStore struct {
	Path   string
	config Config
	logger *slog.Logger

	mu     sync.RWMutex
	reads  int
	writes int
}

// NewDocumentStore creates a store rooted at config.Path. Call Initialize
// before first use.
func NewDocumentStore(config Config) *DocumentStore {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DocumentStore{
		Path:   config.Path,
		config: config,
		logger: logger,
	}
}

// Initialize ensures the data directory exists.
func (s *DocumentStore) Initialize() error {
	return ensureDir(s.Path, s.config.MustExist || s.config.ReadOnly)
}

func ensureDir(path string, mustExist bool) error {
	if mustExist {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", path)
		}
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// PathOf returns the absolute location of a document.
func (s *DocumentStore) PathOf(name string) string {
	return filepath.Join(s.Path, name)
}

// Read returns the raw document. A missing file yields core.ErrNotFound.
func (s *DocumentStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.PathOf(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("document %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", name, err)
	}

	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return data, nil
}

// Write replaces the document atomically.
func (s *DocumentStore) Write(name string, data []byte) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot write %s: %w", name, core.ErrReadOnly)
	}
	if err := writeFileAtomic(s.PathOf(name), data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.logger.Debug("document written", "path", s.PathOf(name), "bytes", len(data))
	return nil
}

var _ core.DocumentStore = (*DocumentStore)(nil)
