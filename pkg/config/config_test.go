package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/resolver"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	c, err := New(File{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.DownloadDir != filepath.Join("/tmp/xdg", "depfetch") {
		t.Errorf("DownloadDir = %q", c.DownloadDir)
	}
	if c.Algorithm.Name() != "SHA-1" {
		t.Errorf("Algorithm = %q, want SHA-1", c.Algorithm.Name())
	}
	if c.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", c.ProbeTimeout)
	}
	if c.Retries != DefaultRetries {
		t.Errorf("Retries = %d, want %d", c.Retries, DefaultRetries)
	}
	if c.Policy != resolver.PolicyFull {
		t.Errorf("Policy = %q, want full", c.Policy)
	}
	if len(c.Fallbacks) != 1 || c.Fallbacks[0].URL != dependency.AltCentralURL {
		t.Errorf("Fallbacks = %v", c.Fallbacks)
	}
	if c.UserAgent == "" {
		t.Error("UserAgent is empty")
	}
	if c.Redis != nil {
		t.Errorf("Redis = %+v, want nil", c.Redis)
	}
	if c.Layout().Root != c.DownloadDir {
		t.Errorf("Layout().Root = %q", c.Layout().Root)
	}
}

func TestDefaultDownloadDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err := DefaultDownloadDir()
	if err != nil {
		t.Fatalf("DefaultDownloadDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", "depfetch"); dir != want {
		t.Errorf("DefaultDownloadDir() = %q, want %q", dir, want)
	}
}

func TestDecode(t *testing.T) {
	data := `
download_dir = "/srv/jars"
checksum_algorithm = "sha256"
probe_timeout = "750ms"
download_retries = 5
override_validation = "trust"
overrides = "pre.json"

[[fallbacks]]
url = "https://mirror.example.com/maven2/"
name = "corp"

[affinity]
"com.google.guava:guava:32.1.3-jre" = ["example", "corp"]

[redis]
addr = "localhost:6379"
db = 2
`
	c, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if c.DownloadDir != "/srv/jars" || c.Algorithm.Name() != "SHA-256" {
		t.Errorf("download settings = %q %q", c.DownloadDir, c.Algorithm.Name())
	}
	if c.ProbeTimeout != 750*time.Millisecond || c.Retries != 5 {
		t.Errorf("timeout/retries = %v %d", c.ProbeTimeout, c.Retries)
	}
	if c.Policy != resolver.PolicyTrust || c.OverridesPath != "pre.json" {
		t.Errorf("policy/overrides = %q %q", c.Policy, c.OverridesPath)
	}
	if len(c.Fallbacks) != 1 || c.Fallbacks[0].Name != "corp" {
		t.Errorf("Fallbacks = %v", c.Fallbacks)
	}
	key := dependency.Coordinate{Group: "com.google.guava", Artifact: "guava", Version: "32.1.3-jre"}.Key()
	if got := c.Affinity[key]; len(got) != 2 || got[0] != "example" {
		t.Errorf("Affinity[%s] = %v", key, got)
	}
	if c.Redis == nil || c.Redis.Addr != "localhost:6379" || c.Redis.DB != 2 {
		t.Errorf("Redis = %+v", c.Redis)
	}
}

func TestNewInvalid(t *testing.T) {
	zero := 0
	tests := []struct {
		name string
		file File
	}{
		{"algorithm", File{DownloadDir: "/x", ChecksumAlgorithm: "crc32"}},
		{"timeout", File{DownloadDir: "/x", ProbeTimeout: "soon"}},
		{"negativeTimeout", File{DownloadDir: "/x", ProbeTimeout: "-1s"}},
		{"retries", File{DownloadDir: "/x", DownloadRetries: &zero}},
		{"policy", File{DownloadDir: "/x", OverrideValidation: "sometimes"}},
		{"fallback", File{DownloadDir: "/x", Fallbacks: []RepositoryFile{{URL: "https://"}}}},
		{"affinityCoordinate", File{DownloadDir: "/x", Affinity: map[string][]string{"g:a": {"r"}}}},
		{"affinityName", File{DownloadDir: "/x", Affinity: map[string][]string{"g:a:1": {"bad name"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.file)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "depfetch.toml")
	if err := os.WriteFile(path, []byte("download_dir = \"/srv/jars\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.DownloadDir != "/srv/jars" {
		t.Errorf("DownloadDir = %q", c.DownloadDir)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) = %v, want INVALID_CONFIG", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("download_dir = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(bad) = %v, want INVALID_CONFIG", err)
	}
}
