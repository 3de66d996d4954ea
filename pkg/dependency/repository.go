package dependency

import (
	"strings"

	"github.com/matzehuels/depfetch/pkg/errors"
)

// Well-known Maven Central endpoints. Declarations of either are dropped by the
// mirror selector and replaced by the configured fallback repositories.
const (
	CentralURL    = "https://repo.maven.apache.org/maven2/"
	AltCentralURL = "https://repo1.maven.org/maven2/"
)

// DefaultRepositoryName is assigned to repositories declared without a name.
const DefaultRepositoryName = "maven"

// Repository is a remote artifact repository endpoint.
// Two repositories are equal iff both URL and Name match, so Repository is
// usable as a map key.
type Repository struct {
	URL  string
	Name string
}

// NewRepository returns a Repository, defaulting the name to
// [DefaultRepositoryName] when empty.
func NewRepository(url, name string) Repository {
	if name == "" {
		name = DefaultRepositoryName
	}
	return Repository{URL: url, Name: name}
}

// BaseURL returns the repository URL with exactly one trailing slash.
func (r Repository) BaseURL() string {
	return strings.TrimRight(r.URL, "/") + "/"
}

// IsCentral reports whether r points at one of the well-known central URLs.
func (r Repository) IsCentral() bool {
	return IsCentralURL(r.URL)
}

// Validate checks the repository URL and name.
func (r Repository) Validate() error {
	if err := errors.ValidateRepositoryURL(r.URL); err != nil {
		return err
	}
	return errors.ValidateRepositoryName(r.Name)
}

func (r Repository) String() string {
	return r.Name + "(" + r.URL + ")"
}

// IsCentralURL reports whether u is one of the well-known central URLs,
// ignoring a missing trailing slash.
func IsCentralURL(u string) bool {
	n := strings.TrimRight(u, "/") + "/"
	return n == CentralURL || n == AltCentralURL
}

// SameURL compares two repository URLs ignoring trailing slashes.
func SameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}

// Mirror redirects requests for Original to Mirroring.
type Mirror struct {
	Original  string
	Mirroring string
}

// Validate checks both mirror URLs.
func (m Mirror) Validate() error {
	if err := errors.ValidateRepositoryURL(m.Original); err != nil {
		return err
	}
	return errors.ValidateRepositoryURL(m.Mirroring)
}
