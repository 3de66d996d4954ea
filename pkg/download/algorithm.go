package download

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"

	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/strategy"
)

// DirectoryDigest is the digest reported for a directory standing in for an
// artifact (a development checkout on the search path).
const DirectoryDigest = "DIRECTORY"

// Algorithm is a named digest function.
type Algorithm struct {
	name string
	new  func() hash.Hash
}

var algorithms = map[string]Algorithm{
	"md5":    {"MD5", md5.New},
	"sha1":   {"SHA-1", sha1.New},
	"sha256": {"SHA-256", sha256.New},
	"sha512": {"SHA-512", sha512.New},
}

// ParseAlgorithm accepts MD5, SHA-1, SHA-256 or SHA-512 in any case, with or
// without the dash.
func ParseAlgorithm(name string) (Algorithm, error) {
	a, ok := algorithms[strategy.NormalizeAlgorithm(name)]
	if !ok {
		return Algorithm{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported checksum algorithm %q", name)
	}
	return a, nil
}

// Name returns the canonical name, e.g. "SHA-1".
func (a Algorithm) Name() string { return a.name }

// Suffix returns the file suffix, e.g. "sha1".
func (a Algorithm) Suffix() string { return strategy.NormalizeAlgorithm(a.name) }

// IsZero reports whether a is the zero Algorithm.
func (a Algorithm) IsZero() bool { return a.new == nil }

// Digest returns the lowercase hex digest of the file at path, or
// [DirectoryDigest] when path is a directory.
func (a Algorithm) Digest(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return DirectoryDigest, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := a.new()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
