// Package mirror rewrites a declared repository list against mirror
// declarations and the always-present fallback repositories.
package mirror

import (
	"github.com/matzehuels/depfetch/pkg/dependency"
)

// DefaultFallbacks are appended to every selection when a Selector is built
// without explicit fallbacks.
var DefaultFallbacks = []dependency.Repository{
	dependency.NewRepository(dependency.AltCentralURL, "central"),
}

// Selector substitutes mirrors for the repositories they mirror.
type Selector struct {
	fallbacks []dependency.Repository
}

// New returns a Selector that always appends fallbacks. A nil or empty
// fallbacks list selects [DefaultFallbacks].
func New(fallbacks []dependency.Repository) *Selector {
	if len(fallbacks) == 0 {
		fallbacks = DefaultFallbacks
	}
	return &Selector{fallbacks: append([]dependency.Repository(nil), fallbacks...)}
}

// Select returns the repositories to query:
//
//  1. declared repositories, minus those whose URL is a mirror original and
//     minus any central declaration
//  2. one repository per mirror, at the mirroring URL
//  3. the fallback repositories
//
// Duplicates collapse. A mirror repository inherits the name of the
// repository it replaces, or [dependency.DefaultRepositoryName].
// Order is stable for equal inputs but callers must not depend on it.
func (s *Selector) Select(repos []dependency.Repository, mirrors []dependency.Mirror) []dependency.Repository {
	out := make([]dependency.Repository, 0, len(repos)+len(mirrors)+len(s.fallbacks))
	seen := make(map[dependency.Repository]bool)
	add := func(r dependency.Repository) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	mirrored := func(url string) bool {
		for _, m := range mirrors {
			if dependency.SameURL(m.Original, url) {
				return true
			}
		}
		return false
	}

	for _, r := range repos {
		if mirrored(r.URL) || r.IsCentral() {
			continue
		}
		add(r)
	}
	for _, m := range mirrors {
		add(dependency.NewRepository(m.Mirroring, replacedName(repos, m)))
	}
	for _, r := range s.fallbacks {
		add(r)
	}
	return out
}

func replacedName(repos []dependency.Repository, m dependency.Mirror) string {
	for _, r := range repos {
		if dependency.SameURL(r.URL, m.Original) {
			return r.Name
		}
	}
	return ""
}
