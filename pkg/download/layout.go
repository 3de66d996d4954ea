package download

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/depfetch/pkg/dependency"
)

// Layout maps coordinates to paths below Root.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

func (l Layout) dir(c dependency.Coordinate) (string, string) {
	version := c.Version
	if c.HasSnapshotQualifier() {
		version += "-" + c.Snapshot
	}
	return filepath.Join(l.Root, filepath.FromSlash(c.GroupPath()), c.Artifact, version), c.Artifact + "-" + version
}

// ArtifactPath returns where the artifact for c is stored.
func (l Layout) ArtifactPath(c dependency.Coordinate) string {
	dir, base := l.dir(c)
	return filepath.Join(dir, base+".jar")
}

// ChecksumPath returns the sidecar path for c under algorithm alg.
func (l Layout) ChecksumPath(c dependency.Coordinate, alg Algorithm) string {
	return l.ArtifactPath(c) + "." + alg.Suffix()
}

// Clear removes the whole store.
func (l Layout) Clear() error {
	return os.RemoveAll(l.Root)
}
