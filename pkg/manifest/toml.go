package manifest

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// TOML parses depfetch.toml style manifests.
type TOML struct{}

func (TOML) Type() string { return "toml" }

func (TOML) Supports(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".toml") }

func (TOML) Parse(path string) (dependency.DependencySet, error) {
	data, err := readFile(path)
	if err != nil {
		return dependency.DependencySet{}, err
	}
	return DecodeTOML(data)
}

// DecodeTOML parses a TOML manifest from memory.
func DecodeTOML(data []byte) (dependency.DependencySet, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return dependency.DependencySet{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse TOML manifest")
	}
	return doc.set()
}
