package manifest

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// JSON parses the small.json layout.
type JSON struct{}

func (JSON) Type() string { return "json" }

func (JSON) Supports(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".json") }

func (JSON) Parse(path string) (dependency.DependencySet, error) {
	data, err := readFile(path)
	if err != nil {
		return dependency.DependencySet{}, err
	}
	return DecodeJSON(data)
}

// DecodeJSON parses a JSON manifest from memory.
func DecodeJSON(data []byte) (dependency.DependencySet, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return dependency.DependencySet{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse JSON manifest")
	}
	return doc.set()
}
