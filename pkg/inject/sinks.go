package inject

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/depfetch/pkg/dependency"
)

// ClasspathSink records materialized paths in first-seen order.
type ClasspathSink struct {
	mu    sync.Mutex
	seen  map[string]bool
	paths []string
}

// NewClasspathSink returns an empty ClasspathSink.
func NewClasspathSink() *ClasspathSink {
	return &ClasspathSink{seen: make(map[string]bool)}
}

// Accept records path once.
func (s *ClasspathSink) Accept(_ context.Context, _ dependency.Coordinate, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen[path] {
		s.seen[path] = true
		s.paths = append(s.paths, path)
	}
	return nil
}

// Paths returns a copy of the recorded paths.
func (s *ClasspathSink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// String joins the paths with the OS path-list separator.
func (s *ClasspathSink) String() string {
	return strings.Join(s.Paths(), string(os.PathListSeparator))
}

// WriteFile writes [ClasspathSink.String] to path.
func (s *ClasspathSink) WriteFile(path string) error {
	return os.WriteFile(path, []byte(s.String()+"\n"), 0o644)
}

// LinkSink places every artifact in Dir, hard-linking when possible and
// copying otherwise. Existing files with the same name are replaced.
type LinkSink struct {
	Dir string
}

// Accept links path into s.Dir.
func (s LinkSink) Accept(_ context.Context, _ dependency.Coordinate, path string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(s.Dir, filepath.Base(path))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Link(path, target); err == nil {
		return nil
	}
	return copyFile(path, target)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
