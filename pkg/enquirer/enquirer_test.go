package enquirer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/probe"
)

// fakeRepo serves 200 for the given paths and 404 otherwise.
func fakeRepo(t *testing.T, paths ...string) *httptest.Server {
	t.Helper()
	ok := make(map[string]bool)
	for _, p := range paths {
		ok[p] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ok[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnquireStates(t *testing.T) {
	ctx := context.Background()
	lib := dependency.Coordinate{Group: "org.example", Artifact: "lib", Version: "1.0"}

	tests := []struct {
		name           string
		paths          []string
		wantNil        bool
		wantAggregator bool
		wantArtifact   string
		wantChecksum   string
	}{
		{
			name:         "artifactWithChecksum",
			paths:        []string{"/org/example/lib/1.0/lib-1.0.jar", "/org/example/lib/1.0/lib-1.0.jar.sha1"},
			wantArtifact: "/org/example/lib/1.0/lib-1.0.jar",
			wantChecksum: "/org/example/lib/1.0/lib-1.0.jar.sha1",
		},
		{
			name:         "artifactWithoutChecksum",
			paths:        []string{"/org/example/lib/1.0/lib-1.0.jar"},
			wantArtifact: "/org/example/lib/1.0/lib-1.0.jar",
		},
		{
			name:           "aggregator",
			paths:          []string{"/org/example/lib/1.0/lib-1.0.pom"},
			wantAggregator: true,
		},
		{
			name:    "unresolved",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeRepo(t, tt.paths...)
			repo := dependency.NewRepository(srv.URL, "fake")
			f := NewFactory(probe.NewHTTP(probe.Options{}), "SHA-1", nil)

			got := f.New(repo).Enquire(ctx, lib)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Enquire() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Enquire() = nil")
			}
			if err := got.Validate(); err != nil {
				t.Errorf("outcome invalid: %v", err)
			}
			if got.Repository != repo {
				t.Errorf("Repository = %v, want %v", got.Repository, repo)
			}
			if got.Aggregator != tt.wantAggregator {
				t.Errorf("Aggregator = %v, want %v", got.Aggregator, tt.wantAggregator)
			}
			if !strings.HasSuffix(got.ArtifactURL, tt.wantArtifact) || (tt.wantArtifact == "") != (got.ArtifactURL == "") {
				t.Errorf("ArtifactURL = %q, want suffix %q", got.ArtifactURL, tt.wantArtifact)
			}
			if (tt.wantChecksum == "") != (got.ChecksumURL == "") || !strings.HasSuffix(got.ChecksumURL, tt.wantChecksum) {
				t.Errorf("ChecksumURL = %q, want suffix %q", got.ChecksumURL, tt.wantChecksum)
			}
		})
	}
}

func TestEnquireSnapshotAlternateLayout(t *testing.T) {
	c := dependency.Coordinate{Group: "g", Artifact: "a", Version: "1.0-SNAPSHOT", Snapshot: "20230101.120000-1"}
	alt := "/g/a/1.0-SNAPSHOT/1.0-20230101.120000-1/a-1.0-20230101.120000-1.jar"
	srv := fakeRepo(t, alt)

	f := NewFactory(probe.NewHTTP(probe.Options{}), "SHA-1", nil)
	got := f.New(dependency.NewRepository(srv.URL, "snapshots")).Enquire(context.Background(), c)
	if got == nil || !strings.HasSuffix(got.ArtifactURL, alt) {
		t.Fatalf("Enquire() = %+v, want artifact at alternate layout", got)
	}
}

func TestEnquireProbesEachURLOnce(t *testing.T) {
	tests := []struct {
		name       string
		coord      dependency.Coordinate
		reachable  string
		wantProbes int
	}{
		{"release", dependency.Coordinate{Group: "g", Artifact: "a", Version: "1.0"}, "/g/a/1.0/a-1.0.jar", 2},
		{"snapshotAlternate", dependency.Coordinate{Group: "g", Artifact: "a", Version: "1.0-SNAPSHOT", Snapshot: "1"},
			"/g/a/1.0-SNAPSHOT/1.0-1/a-1.0-1.jar", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := "https://repo.example"
			calls := make(map[string]int)
			p := probe.Func(func(_ context.Context, u string) bool {
				calls[u]++
				return u == base+tt.reachable || u == base+tt.reachable+".sha1"
			})
			got := NewFactory(p, "SHA-1", nil).New(dependency.NewRepository(base+"/", "r")).Enquire(context.Background(), tt.coord)
			if got == nil || got.ChecksumURL != base+tt.reachable+".sha1" {
				t.Fatalf("Enquire() = %+v", got)
			}
			for u, n := range calls {
				if n != 1 {
					t.Errorf("%s probed %d times", u, n)
				}
			}
			if len(calls) != tt.wantProbes {
				t.Errorf("probed %d URLs, want %d: %v", len(calls), tt.wantProbes, calls)
			}
		})
	}
}

func TestEnquireCancelled(t *testing.T) {
	var calls int
	p := probe.Func(func(context.Context, string) bool { calls++; return true })
	f := NewFactory(p, "SHA-1", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := f.New(dependency.NewRepository("https://repo.example/", "r")).Enquire(ctx,
		dependency.Coordinate{Group: "g", Artifact: "a", Version: "1"})
	if got != nil {
		t.Errorf("Enquire() on cancelled context = %+v, want nil", got)
	}
}

func TestFactoryAll(t *testing.T) {
	f := NewFactory(probe.Func(func(context.Context, string) bool { return false }), "SHA-1", nil)
	repos := []dependency.Repository{
		dependency.NewRepository("https://a.example/", "a"),
		dependency.NewRepository("https://b.example/", "b"),
	}
	es := f.All(repos)
	if len(es) != 2 || es[0].Repository() != repos[0] || es[1].Repository() != repos[1] {
		t.Errorf("All() = %v", es)
	}
}
