package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/depfetch/pkg/observability"
)

func TestHTTPReachable(t *testing.T) {
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "probe-test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/ok.jar":
			w.WriteHeader(http.StatusOK)
		case "/nohead.jar":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			gets.Add(1)
			w.WriteHeader(http.StatusOK)
		case "/redirected.jar":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewHTTP(Options{UserAgent: "probe-test", Timeout: time.Second})
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"ok", srv.URL + "/ok.jar", true},
		{"missing", srv.URL + "/missing.jar", false},
		{"headNotAllowed", srv.URL + "/nohead.jar", true},
		{"non200Success", srv.URL + "/redirected.jar", false},
		{"unsupportedScheme", "ftp://example.com/a.jar", false},
		{"fileScheme", "file:///etc/passwd", false},
		{"garbage", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Reachable(ctx, tt.url); got != tt.want {
				t.Errorf("Reachable(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
	if gets.Load() != 1 {
		t.Errorf("GET fallback calls = %d, want 1", gets.Load())
	}
}

func TestHTTPTimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewHTTP(Options{Timeout: 50 * time.Millisecond})
	if p.Reachable(context.Background(), srv.URL+"/slow.jar") {
		t.Error("slow endpoint reported reachable")
	}
}

func TestHTTPConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	p := NewHTTP(Options{Timeout: time.Second})
	if p.Reachable(context.Background(), addr+"/a.jar") {
		t.Error("closed server reported reachable")
	}
}

func TestHTTPHooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	counters := observability.NewCounters()
	p := NewHTTP(Options{Hooks: counters})
	p.Reachable(context.Background(), srv.URL+"/a.jar")
	p.Reachable(context.Background(), "ftp://nowhere/a.jar")

	s := counters.Snapshot()
	if s.Probes != 1 || s.ProbesReachable != 1 {
		t.Errorf("probes = %d (reachable %d), want 1 (1)", s.Probes, s.ProbesReachable)
	}
}

func TestFunc(t *testing.T) {
	var p Prober = Func(func(_ context.Context, u string) bool { return u == "yes" })
	if !p.Reachable(context.Background(), "yes") || p.Reachable(context.Background(), "no") {
		t.Error("Func did not delegate")
	}
}
