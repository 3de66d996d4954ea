package manifest

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// POM reads the direct dependencies and repositories of a Maven pom.xml.
// Dependencies in test or provided scope, optional ones, and any whose
// coordinates use unresolved ${properties} or a managed (absent) version are
// skipped. No transitive children are declared.
type POM struct{}

func (POM) Type() string { return "pom" }

func (POM) Supports(name string) bool {
	lower := strings.ToLower(name)
	return lower == "pom.xml" || strings.HasSuffix(lower, ".pom")
}

func (POM) Parse(path string) (dependency.DependencySet, error) {
	data, err := readFile(path)
	if err != nil {
		return dependency.DependencySet{}, err
	}
	return DecodePOM(data)
}

// DecodePOM parses pom.xml content from memory.
func DecodePOM(data []byte) (dependency.DependencySet, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return dependency.DependencySet{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse POM")
	}

	var doc document
	for _, r := range pom.Repositories {
		doc.Repositories = append(doc.Repositories, repositorySpec{URL: strings.TrimSpace(r.URL), Name: strings.TrimSpace(r.ID)})
	}

	seen := make(map[string]bool)
	for _, d := range pom.Dependencies {
		if d.Scope == "test" || d.Scope == "provided" || d.Optional == "true" {
			continue
		}
		if d.Version == "" || hasProperty(d.GroupID, d.ArtifactID, d.Version) {
			continue
		}
		spec := dependencySpec{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version}
		key := spec.GroupID + ":" + spec.ArtifactID + ":" + spec.Version
		if seen[key] {
			continue
		}
		seen[key] = true
		doc.Dependencies = append(doc.Dependencies, spec)
	}
	return doc.set()
}

func hasProperty(values ...string) bool {
	for _, v := range values {
		if strings.Contains(v, "${") {
			return true
		}
	}
	return false
}

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Repositories []pomRepository `xml:"repositories>repository"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

type pomRepository struct {
	ID  string `xml:"id"`
	URL string `xml:"url"`
}
