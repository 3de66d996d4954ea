package dependency

import (
	"strings"

	"github.com/matzehuels/depfetch/pkg/errors"
)

// SnapshotMarker is the version suffix that marks a mutable snapshot version.
const SnapshotMarker = "-SNAPSHOT"

// Key is the identity of a coordinate: group, artifact and version.
// The snapshot qualifier and transitive children are deliberately excluded,
// so two declarations of the same library share one cache entry.
type Key struct {
	Group    string
	Artifact string
	Version  string
}

// String returns "group:artifact:version".
func (k Key) String() string {
	return k.Group + ":" + k.Artifact + ":" + k.Version
}

// Coordinate identifies a library and the libraries it declares as transitive
// children. Values are treated as immutable after construction.
//
// Zero values: all string fields are empty, Transitive is nil. A zero
// Coordinate fails [Coordinate.Validate].
type Coordinate struct {
	Group      string       // e.g. "com.google.guava"
	Artifact   string       // e.g. "guava"
	Version    string       // e.g. "32.1.3-jre" or "1.0-SNAPSHOT"
	Snapshot   string       // Snapshot qualifier, e.g. "20230101.120000-1" (optional)
	Transitive []Coordinate // Declared transitive children, in declaration order
}

// Key returns the identity of c.
func (c Coordinate) Key() Key {
	return Key{Group: c.Group, Artifact: c.Artifact, Version: c.Version}
}

// Equal reports whether c and o identify the same library.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Key() == o.Key()
}

// String returns "group:artifact:version[:snapshot]".
// This is also the lookup key into pre-resolution override tables.
func (c Coordinate) String() string {
	s := c.Key().String()
	if c.HasSnapshotQualifier() {
		s += ":" + c.Snapshot
	}
	return s
}

// HasSnapshotQualifier reports whether a non-empty snapshot qualifier is set.
func (c Coordinate) HasSnapshotQualifier() bool {
	return c.Snapshot != ""
}

// IsSnapshot reports whether the version carries the snapshot marker.
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, SnapshotMarker)
}

// BaseVersion returns the version without the snapshot marker.
func (c Coordinate) BaseVersion() string {
	return strings.TrimSuffix(c.Version, SnapshotMarker)
}

// GroupPath returns the group with dots replaced by slashes, as used by
// Maven-layout repositories and the local store.
func (c Coordinate) GroupPath() string {
	return strings.ReplaceAll(c.Group, ".", "/")
}

// Validate checks every identity segment of c and of its transitive children.
func (c Coordinate) Validate() error {
	if err := errors.ValidateCoordinatePart("group", c.Group); err != nil {
		return err
	}
	if err := errors.ValidateCoordinatePart("artifact", c.Artifact); err != nil {
		return err
	}
	if err := errors.ValidateCoordinatePart("version", c.Version); err != nil {
		return err
	}
	if c.Snapshot != "" {
		if err := errors.ValidateCoordinatePart("snapshot", c.Snapshot); err != nil {
			return err
		}
	}
	for _, child := range c.Transitive {
		if err := child.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "transitive dependency of %s", c)
		}
	}
	return nil
}

// ParseCoordinate parses "group:artifact:version[:snapshot]".
// The returned Coordinate has no transitive children.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected group:artifact:version[:snapshot])", s)
	}
	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Snapshot = parts[3]
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Walk visits roots and their transitive children depth-first, parent before
// children, in declaration order. If fn returns false the children of that
// coordinate are not visited.
func Walk(roots []Coordinate, fn func(c Coordinate, depth int) bool) {
	var visit func(cs []Coordinate, depth int)
	visit = func(cs []Coordinate, depth int) {
		for _, c := range cs {
			if fn(c, depth) {
				visit(c.Transitive, depth+1)
			}
		}
	}
	visit(roots, 0)
}

// Unique returns every coordinate reachable from roots, once per [Key], in
// first-seen pre-order.
func Unique(roots []Coordinate) []Coordinate {
	seen := make(map[Key]bool)
	var out []Coordinate
	Walk(roots, func(c Coordinate, _ int) bool {
		if seen[c.Key()] {
			return false
		}
		seen[c.Key()] = true
		out = append(out, c)
		return true
	})
	return out
}
