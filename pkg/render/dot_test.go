package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/depfetch/pkg/dependency"
)

func tree() []dependency.Coordinate {
	shared := dependency.Coordinate{Group: "g", Artifact: "shared", Version: "1"}
	return []dependency.Coordinate{
		{Group: "g", Artifact: "bom", Version: "1", Transitive: []dependency.Coordinate{shared}},
		{Group: "g", Artifact: "app", Version: "2", Transitive: []dependency.Coordinate{shared}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(tree(), nil)

	for _, want := range []string{
		"digraph G {",
		`"g:bom:1" -> "g:shared:1";`,
		`"g:app:2" -> "g:shared:1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, `"g:shared:1" [`); n != 1 {
		t.Errorf("shared node declared %d times, want 1", n)
	}
	if strings.Contains(dot, "dashed") {
		t.Error("declared-only tree should not mark aggregators")
	}
}

func TestToDOTOutcomes(t *testing.T) {
	repo := dependency.NewRepository("https://repo.example.com/", "example")
	outcomes := map[string]*dependency.Outcome{
		"g:bom:1": dependency.NewAggregator(repo),
		"g:app:2": {Repository: repo, ArtifactURL: "https://repo.example.com/g/app/2/app-2.jar"},
	}

	dot := ToDOT(tree(), outcomes)

	lines := strings.Split(dot, "\n")
	find := func(prefix string) string {
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), prefix) {
				return l
			}
		}
		t.Fatalf("no line starting with %s in:\n%s", prefix, dot)
		return ""
	}

	if l := find(`"g:bom:1" [`); !strings.Contains(l, "dashed") || !strings.Contains(l, `\nexample`) {
		t.Errorf("aggregator node = %s", l)
	}
	if l := find(`"g:app:2" [`); strings.Contains(l, "dashed") {
		t.Errorf("artifact node should not be dashed: %s", l)
	}
	if l := find(`"g:shared:1" [`); !strings.Contains(l, "lightgrey") {
		t.Errorf("unresolved node should be greyed: %s", l)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should pass through")
	}
}
