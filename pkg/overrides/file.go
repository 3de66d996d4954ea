package overrides

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// FileStore keeps the pre-resolution document in a JSON file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

// NewFileStore returns a store backed by path. A nil logger discards output.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the document. A missing, unreadable or malformed file yields
// an empty table.
func (s *FileStore) Load(_ context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("no pre-resolution document", "path", s.path, "err", err)
		return NewTable(nil), nil
	}
	t, err := Decode(data, s.logger)
	if err != nil {
		s.logger.Debug("ignoring pre-resolution document", "path", s.path, "err", err)
		return NewTable(nil), nil
	}
	return t, nil
}

// Save merges results into the document on disk.
func (s *FileStore) Save(_ context.Context, results map[string]*dependency.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]*dependency.Outcome, len(results))
	if data, err := os.ReadFile(s.path); err == nil {
		if t, err := Decode(data, s.logger); err == nil {
			merged = t.All()
		}
	}
	for k, o := range results {
		merged[k] = o
	}

	data, err := Encode(merged)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode pre-resolution document")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(s.path))
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", s.path)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// ReadFile loads the document at path, returning an empty table when it
// cannot be read.
func ReadFile(path string, logger *log.Logger) *Table {
	t, _ := NewFileStore(path, logger).Load(context.Background())
	return t
}

// WriteFile merges results into the document at path.
func WriteFile(path string, results map[string]*dependency.Outcome) error {
	return NewFileStore(path, nil).Save(context.Background(), results)
}
