// Package overrides stores pre-resolved outcomes so a run can skip live
// repository probing.
//
// A pre-resolution document maps coordinate string forms
// ("group:artifact:version[:snapshot]") to outcomes:
//
//	{
//	  "com.google.guava:guava:32.1.3-jre": {
//	    "repository": {"url": "https://repo1.maven.org/maven2/", "name": "central"},
//	    "dependencyURL": "https://repo1.maven.org/maven2/com/google/guava/guava/32.1.3-jre/guava-32.1.3-jre.jar",
//	    "checksumURL": "https://repo1.maven.org/maven2/com/google/guava/guava/32.1.3-jre/guava-32.1.3-jre.jar.sha1",
//	    "isAggregator": false
//	  }
//	}
//
// Backends:
//   - file: a JSON document on disk ([FileStore])
//   - redis: one hash shared between machines ([RedisStore])
package overrides

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// Store is implemented by override backends.
type Store interface {
	// Load returns the stored table. A missing or unreadable document
	// yields an empty table, not an error.
	Load(ctx context.Context) (*Table, error)

	// Save writes results, replacing entries with the same key.
	Save(ctx context.Context, results map[string]*dependency.Outcome) error
}

// Table is a concurrency-safe map from coordinate string form to outcome.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*dependency.Outcome
}

// NewTable returns a table holding a copy of entries.
func NewTable(entries map[string]*dependency.Outcome) *Table {
	t := &Table{entries: make(map[string]*dependency.Outcome, len(entries))}
	maps.Copy(t.entries, entries)
	return t
}

// Get returns the outcome stored for coord.
func (t *Table) Get(coord string) (*dependency.Outcome, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.entries[coord]
	return o, ok
}

// Set stores o under coord.
func (t *Table) Set(coord string, o *dependency.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[coord] = o
}

// All returns a copy of every entry.
func (t *Table) All() map[string]*dependency.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.entries)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// entry is the wire form of one outcome.
type entry struct {
	Repository struct {
		URL  string `json:"url"`
		Name string `json:"name,omitempty"`
	} `json:"repository"`
	DependencyURL string `json:"dependencyURL,omitempty"`
	ChecksumURL   string `json:"checksumURL,omitempty"`
	IsAggregator  bool   `json:"isAggregator"`
}

func toEntry(o *dependency.Outcome) entry {
	var e entry
	e.Repository.URL = o.Repository.URL
	e.Repository.Name = o.Repository.Name
	e.DependencyURL = o.ArtifactURL
	e.ChecksumURL = o.ChecksumURL
	e.IsAggregator = o.Aggregator
	return e
}

func (e entry) outcome() (*dependency.Outcome, error) {
	o := &dependency.Outcome{
		Repository:  dependency.NewRepository(e.Repository.URL, e.Repository.Name),
		ArtifactURL: e.DependencyURL,
		ChecksumURL: e.ChecksumURL,
		Aggregator:  e.IsAggregator,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Decode parses a pre-resolution document. Entries that are malformed or
// violate the aggregator invariant are skipped and logged at Debug; only a
// document that is not a JSON object is an error. A nil logger discards.
func Decode(data []byte, logger *log.Logger) (*Table, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse pre-resolution document")
	}
	t := NewTable(nil)
	for k, msg := range raw {
		var e entry
		if err := json.Unmarshal(msg, &e); err != nil {
			logger.Debug("skipping malformed override", "coord", k, "err", err)
			continue
		}
		o, err := e.outcome()
		if err != nil {
			logger.Debug("skipping invalid override", "coord", k, "err", err)
			continue
		}
		t.entries[k] = o
	}
	return t, nil
}

// Encode renders results as an indented pre-resolution document with keys
// in sorted order.
func Encode(results map[string]*dependency.Outcome) ([]byte, error) {
	raw := make(map[string]entry, len(results))
	for k, o := range results {
		raw[k] = toEntry(o)
	}
	return json.MarshalIndent(raw, "", "  ")
}
