package mirror

import (
	"testing"

	"github.com/matzehuels/depfetch/pkg/dependency"
)

func urls(repos []dependency.Repository) map[string]bool {
	m := make(map[string]bool)
	for _, r := range repos {
		m[r.URL] = true
	}
	return m
}

func TestSelectMirrorSubstitution(t *testing.T) {
	a := dependency.NewRepository("https://u1.example/maven/", "a")
	central := dependency.NewRepository(dependency.CentralURL, "central")
	m := dependency.Mirror{Original: "https://u1.example/maven/", Mirroring: "https://u2.example/maven/"}

	got := New(nil).Select([]dependency.Repository{a, central}, []dependency.Mirror{m})
	set := urls(got)

	if !set["https://u2.example/maven/"] {
		t.Error("mirror URL missing from selection")
	}
	if set["https://u1.example/maven/"] {
		t.Error("mirrored original still selected")
	}
	if set[dependency.CentralURL] {
		t.Error("declared central repository should be dropped")
	}
	for _, fb := range DefaultFallbacks {
		if !set[fb.URL] {
			t.Errorf("fallback %s missing", fb)
		}
	}

	for _, r := range got {
		if r.URL == m.Mirroring && r.Name != "a" {
			t.Errorf("mirror name = %q, want inherited %q", r.Name, "a")
		}
	}
}

func TestSelectCollapsesDuplicates(t *testing.T) {
	r := dependency.NewRepository("https://jitpack.io/", "jitpack")
	fb := dependency.NewRepository("https://fallback.example/", "fb")

	got := New([]dependency.Repository{fb}).Select(
		[]dependency.Repository{r, r, fb, dependency.NewRepository(dependency.AltCentralURL, "")},
		nil,
	)
	if len(got) != 2 {
		t.Fatalf("Select() = %v, want 2 repositories", got)
	}
	if got[0] != r || got[1] != fb {
		t.Errorf("Select() = %v", got)
	}
}

func TestSelectMirrorWithoutDeclaredOriginal(t *testing.T) {
	m := dependency.Mirror{Original: "https://gone.example/", Mirroring: "https://mirror.example/"}
	got := New(nil).Select(nil, []dependency.Mirror{m})

	var found bool
	for _, r := range got {
		if r.URL == m.Mirroring {
			found = true
			if r.Name != dependency.DefaultRepositoryName {
				t.Errorf("mirror name = %q, want %q", r.Name, dependency.DefaultRepositoryName)
			}
		}
	}
	if !found {
		t.Error("mirror repository missing")
	}
}

func TestSelectTrailingSlashInsensitive(t *testing.T) {
	a := dependency.NewRepository("https://u1.example/maven", "a")
	m := dependency.Mirror{Original: "https://u1.example/maven/", Mirroring: "https://u2.example/"}
	if urls(New(nil).Select([]dependency.Repository{a}, []dependency.Mirror{m}))[a.URL] {
		t.Error("original with missing trailing slash was not substituted")
	}
}
