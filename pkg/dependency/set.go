package dependency

import "github.com/matzehuels/depfetch/pkg/errors"

// DependencySet is a resolution manifest: the declared top-level coordinates
// and the repository and mirror context they resolve against.
type DependencySet struct {
	Mirrors      []Mirror
	Repositories []Repository
	Dependencies []Coordinate
}

// Validate checks every mirror, repository and coordinate in the set.
func (s DependencySet) Validate() error {
	for _, m := range s.Mirrors {
		if err := m.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "mirror %s", m.Original)
		}
	}
	for _, r := range s.Repositories {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "repository %s", r)
		}
	}
	for _, c := range s.Dependencies {
		if err := c.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency %s", c)
		}
	}
	return nil
}

// Count returns the number of unique coordinates reachable from the set.
func (s DependencySet) Count() int {
	return len(Unique(s.Dependencies))
}
