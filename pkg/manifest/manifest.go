// Package manifest reads dependency manifests into [dependency.DependencySet].
//
// Two layouts are native and share field names:
//
//   - JSON (*.json, e.g. small.json)
//   - TOML (*.toml, e.g. depfetch.toml)
//
// A dependency is either spelled out (groupId, artifactId, version,
// snapshotId) or given as a single "coordinate" string. Transitive
// dependencies nest under "transitive".
//
// A Maven pom.xml is also accepted; only its direct dependencies and
// repositories are read.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// Parser reads one manifest format.
type Parser interface {
	// Parse reads the manifest at path. The result is validated.
	Parse(path string) (dependency.DependencySet, error)

	// Supports reports whether this parser handles the given file name.
	Supports(filename string) bool

	// Type returns the format identifier ("json", "toml", "pom").
	Type() string
}

// Parsers returns the built-in parsers in detection order.
func Parsers() []Parser {
	return []Parser{JSON{}, TOML{}, POM{}}
}

// Detect finds the parser that supports path, by base name.
func Detect(path string, parsers ...Parser) (Parser, error) {
	if len(parsers) == 0 {
		parsers = Parsers()
	}
	name := filepath.Base(path)
	if err := errors.ValidateManifestFilename(name); err != nil {
		return nil, err
	}
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest: %s", name)
}

// Load detects the format of path and parses it.
func Load(path string) (dependency.DependencySet, error) {
	p, err := Detect(path)
	if err != nil {
		return dependency.DependencySet{}, err
	}
	return p.Parse(path)
}

type document struct {
	Mirrors      []mirrorSpec     `json:"mirrors" toml:"mirrors"`
	Repositories []repositorySpec `json:"repositories" toml:"repositories"`
	Dependencies []dependencySpec `json:"dependencies" toml:"dependencies"`
}

type mirrorSpec struct {
	Original  string `json:"original" toml:"original"`
	Mirroring string `json:"mirroring" toml:"mirroring"`
}

type repositorySpec struct {
	URL  string `json:"url" toml:"url"`
	Name string `json:"name" toml:"name"`
}

type dependencySpec struct {
	Coordinate string           `json:"coordinate,omitempty" toml:"coordinate"`
	GroupID    string           `json:"groupId" toml:"groupId"`
	ArtifactID string           `json:"artifactId" toml:"artifactId"`
	Version    string           `json:"version" toml:"version"`
	SnapshotID string           `json:"snapshotId,omitempty" toml:"snapshotId"`
	Transitive []dependencySpec `json:"transitive,omitempty" toml:"transitive"`
}

func (d document) set() (dependency.DependencySet, error) {
	var s dependency.DependencySet
	for _, m := range d.Mirrors {
		s.Mirrors = append(s.Mirrors, dependency.Mirror{Original: m.Original, Mirroring: m.Mirroring})
	}
	for _, r := range d.Repositories {
		s.Repositories = append(s.Repositories, dependency.NewRepository(r.URL, r.Name))
	}
	for _, spec := range d.Dependencies {
		c, err := spec.coordinate()
		if err != nil {
			return dependency.DependencySet{}, err
		}
		s.Dependencies = append(s.Dependencies, c)
	}
	if err := s.Validate(); err != nil {
		return dependency.DependencySet{}, err
	}
	return s, nil
}

func (d dependencySpec) coordinate() (dependency.Coordinate, error) {
	var c dependency.Coordinate
	if d.Coordinate != "" {
		parsed, err := dependency.ParseCoordinate(d.Coordinate)
		if err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency %q", d.Coordinate)
		}
		c = parsed
	} else {
		c = dependency.Coordinate{Group: d.GroupID, Artifact: d.ArtifactID, Version: d.Version, Snapshot: d.SnapshotID}
	}
	for _, t := range d.Transitive {
		child, err := t.coordinate()
		if err != nil {
			return c, err
		}
		c.Transitive = append(c.Transitive, child)
	}
	return c, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return data, nil
}
