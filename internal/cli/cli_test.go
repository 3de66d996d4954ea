package cli

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depfetch/pkg/config"
	"github.com/matzehuels/depfetch/pkg/errors"
)

const jarBody = "PK\x03\x04 fake jar"

// fakeRepository serves one jar with a SHA-1 sidecar and one descriptor-only
// coordinate.
func fakeRepository(t *testing.T) *httptest.Server {
	t.Helper()
	sum := sha1.Sum([]byte(jarBody))
	files := map[string]string{
		"/org/example/lib/1.0/lib-1.0.jar":      jarBody,
		"/org/example/lib/1.0/lib-1.0.jar.sha1": hex.EncodeToString(sum[:]),
		"/org/example/bom/1.0/bom-1.0.pom":      "<project/>",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// workspace writes a config and manifest pointing at srv and returns their
// paths along with the store directory.
func workspace(t *testing.T, srv *httptest.Server, deps string) (cfgPath, manifestPath, store string) {
	t.Helper()
	dir := t.TempDir()
	store = filepath.Join(dir, "store")

	cfgPath = filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf(`download_dir = %q
probe_timeout = "2s"
download_retries = 1

[[fallbacks]]
url = %q
name = "test"
`, store, srv.URL+"/")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	manifestPath = filepath.Join(dir, "small.json")
	if err := os.WriteFile(manifestPath, []byte(`{"dependencies": [`+deps+`]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, manifestPath, store
}

const (
	libDep     = `{"groupId": "org.example", "artifactId": "lib", "version": "1.0"}`
	bomDep     = `{"groupId": "org.example", "artifactId": "bom", "version": "1.0"}`
	missingDep = `{"groupId": "org.example", "artifactId": "missing", "version": "9"}`
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(&errOut, LogInfo)
	c.Out = &out
	c.noProgress = true

	root := c.RootCommand()
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestFetch(t *testing.T) {
	srv := fakeRepository(t)
	cfg, manifest, store := workspace(t, srv, libDep+","+bomDep)
	classpath := filepath.Join(t.TempDir(), "classpath.txt")

	stdout, stderr, err := execute(t, "fetch", manifest, "--config", cfg, "--classpath", classpath)
	if err != nil {
		t.Fatalf("fetch failed: %v\n%s", err, stderr)
	}

	jar := filepath.Join(store, "org", "example", "lib", "1.0", "lib-1.0.jar")
	data, err := os.ReadFile(jar)
	if err != nil {
		t.Fatalf("artifact not stored: %v", err)
	}
	if string(data) != jarBody {
		t.Errorf("artifact content = %q", data)
	}
	if _, err := os.Stat(jar + ".sha1"); err != nil {
		t.Errorf("checksum sidecar missing: %v", err)
	}

	sentinel, err := os.ReadFile(filepath.Join(store, "org", "example", "bom", "1.0", "bom-1.0.jar"))
	if err != nil || string(sentinel) != "bom-file" {
		t.Errorf("aggregator sentinel = %q, %v", sentinel, err)
	}

	if strings.TrimSpace(stdout) != jar {
		t.Errorf("stdout = %q, want only %s", stdout, jar)
	}
	cp, err := os.ReadFile(classpath)
	if err != nil || strings.TrimSpace(string(cp)) != jar {
		t.Errorf("classpath file = %q, %v", cp, err)
	}
	if !strings.Contains(stderr, "downloading") {
		t.Errorf("stderr should log the download:\n%s", stderr)
	}

	// A second run is served from the verified store.
	if _, stderr, err := execute(t, "fetch", manifest, "--config", cfg); err != nil {
		t.Fatalf("second fetch failed: %v\n%s", err, stderr)
	} else if strings.Contains(stderr, "downloading") {
		t.Errorf("second fetch downloaded again:\n%s", stderr)
	}
}

func TestFetchUnresolved(t *testing.T) {
	srv := fakeRepository(t)
	cfg, manifest, _ := workspace(t, srv, missingDep)

	_, _, err := execute(t, "fetch", manifest, "--config", cfg)
	if !errors.Is(err, errors.ErrCodeInjectionFailed) || !errors.Is(err, errors.ErrCodeUnresolved) {
		t.Errorf("fetch error = %v, want INJECTION_FAILED wrapping UNRESOLVED_DEPENDENCY", err)
	}
}

func TestResolve(t *testing.T) {
	srv := fakeRepository(t)
	cfg, manifest, store := workspace(t, srv, libDep+","+bomDep+","+missingDep)

	stdout, _, err := execute(t, "resolve", manifest, "--config", cfg)
	if !errors.Is(err, errors.ErrCodeUnresolved) {
		t.Errorf("resolve error = %v, want UNRESOLVED_DEPENDENCY", err)
	}
	for _, want := range []string{"org.example:lib:1.0", "(aggregator)", "unresolved", srv.URL + "/org/example/lib/1.0/lib-1.0.jar"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("resolve output missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(store); !os.IsNotExist(err) {
		t.Error("resolve should not download anything")
	}
}

func TestTree(t *testing.T) {
	srv := fakeRepository(t)
	deps := `{"groupId": "org.example", "artifactId": "app", "version": "2", "transitive": [` + libDep + `]}`
	cfg, manifest, _ := workspace(t, srv, deps)

	stdout, _, err := execute(t, "tree", manifest, "--config", cfg)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if !strings.Contains(stdout, `"org.example:app:2" -> "org.example:lib:1.0";`) {
		t.Errorf("tree output:\n%s", stdout)
	}

	if _, _, err := execute(t, "tree", manifest, "--config", cfg, "--format", "png"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("tree --format png error = %v, want INVALID_INPUT", err)
	}
}

func TestOverridesExportAndReuse(t *testing.T) {
	srv := fakeRepository(t)
	cfg, manifest, _ := workspace(t, srv, libDep+","+bomDep)
	doc := filepath.Join(t.TempDir(), "overrides.json")

	if _, stderr, err := execute(t, "overrides", "export", manifest, "--config", cfg, "-o", doc); err != nil {
		t.Fatalf("export failed: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"org.example:lib:1.0"`, `"org.example:bom:1.0"`, `"isAggregator": true`, `"dependencyURL"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("document missing %s:\n%s", want, data)
		}
	}

	if _, _, err := execute(t, "overrides", "export", manifest, "--config", cfg); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("export without target = %v, want INVALID_INPUT", err)
	}

	stdout, _, err := execute(t, "resolve", manifest, "--config", cfg, "--overrides", doc)
	if err != nil {
		t.Fatalf("resolve with overrides failed: %v", err)
	}
	if !strings.Contains(stdout, "org.example:lib:1.0") {
		t.Errorf("resolve output:\n%s", stdout)
	}
}

func TestStore(t *testing.T) {
	srv := fakeRepository(t)
	cfg, manifest, store := workspace(t, srv, libDep)

	stdout, _, err := execute(t, "store", "path", "--config", cfg)
	if err != nil || strings.TrimSpace(stdout) != store {
		t.Errorf("store path = %q, %v; want %s", stdout, err, store)
	}

	if _, stderr, err := execute(t, "store", "clear", "--config", cfg); err != nil || !strings.Contains(stderr, "empty") {
		t.Errorf("clearing an absent store = %q, %v", stderr, err)
	}

	if _, _, err := execute(t, "fetch", manifest, "--config", cfg); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, _, err := execute(t, "store", "clear", "--config", cfg); err != nil {
		t.Fatalf("store clear failed: %v", err)
	}
	if _, err := os.Stat(store); !os.IsNotExist(err) {
		t.Errorf("store still exists after clear: %v", err)
	}
}

func TestManifestPath(t *testing.T) {
	if got := manifestPath(nil, config.Config{}); got != defaultManifest {
		t.Errorf("manifestPath() = %q, want %q", got, defaultManifest)
	}
	if got := manifestPath(nil, config.Config{Manifest: "deps.json"}); got != "deps.json" {
		t.Errorf("manifestPath() = %q, want deps.json", got)
	}
	if got := manifestPath([]string{"x.toml"}, config.Config{Manifest: "deps.json"}); got != "x.toml" {
		t.Errorf("manifestPath() = %q, want x.toml", got)
	}
}
