package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/httputil"
)

// Resolver is the part of the caching resolver the download package needs.
type Resolver interface {
	Resolve(ctx context.Context, c dependency.Coordinate) (*dependency.Outcome, error)
}

// Verifier decides whether a local file already holds the artifact for a
// coordinate. A false result with a nil error means "not verified"; an error
// means verification itself could not complete.
type Verifier interface {
	Verify(ctx context.Context, path string, c dependency.Coordinate) (bool, error)
	// ChecksumFile returns the sidecar path for c, or "" if the verifier keeps none.
	ChecksumFile(c dependency.Coordinate) string
}

// ExistsVerifier accepts any existing file.
type ExistsVerifier struct{}

// Verify reports whether path exists.
func (ExistsVerifier) Verify(_ context.Context, path string, _ dependency.Coordinate) (bool, error) {
	_, err := os.Stat(path)
	return err == nil, nil
}

// ChecksumFile returns "".
func (ExistsVerifier) ChecksumFile(dependency.Coordinate) string { return "" }

// ChecksumVerifier verifies files against persisted digest sidecars.
type ChecksumVerifier struct {
	layout    Layout
	algorithm Algorithm
	resolver  Resolver
	client    *httputil.Client
	logger    *log.Logger
}

// NewChecksumVerifier returns a verifier that keeps sidecars in layout.
// The resolver supplies published checksum URLs for coordinates without a
// sidecar; client fetches them.
func NewChecksumVerifier(layout Layout, alg Algorithm, r Resolver, client *httputil.Client, logger *log.Logger) *ChecksumVerifier {
	if client == nil {
		client = httputil.NewClient(0, nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ChecksumVerifier{layout: layout, algorithm: alg, resolver: r, client: client, logger: logger}
}

// ChecksumFile returns the sidecar path for c.
func (v *ChecksumVerifier) ChecksumFile(c dependency.Coordinate) string {
	return v.layout.ChecksumPath(c, v.algorithm)
}

// Verify computes the digest of path and compares it with the sidecar.
// Without a sidecar it fetches the published digest, persists it, and
// compares. If the repository publishes no digest the local one is
// persisted and the file is accepted.
func (v *ChecksumVerifier) Verify(ctx context.Context, path string, c dependency.Coordinate) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || (!info.IsDir() && info.Size() == 0) {
		return false, nil
	}

	actual, err := v.algorithm.Digest(path)
	if err != nil {
		return false, err
	}
	if actual == DirectoryDigest {
		return true, nil
	}

	sidecar := v.ChecksumFile(c)
	if data, err := os.ReadFile(sidecar); err == nil {
		expected := parseDigest(string(data))
		if expected != actual {
			v.logger.Debug("checksum mismatch", "coord", c, "expected", expected, "actual", actual)
			return false, nil
		}
		return true, nil
	}

	expected, verifiable, err := v.published(ctx, c)
	if err != nil || !verifiable {
		return false, err
	}
	if expected == "" {
		v.logger.Debug("no published checksum, recording local digest", "coord", c)
		return true, writeSidecar(sidecar, actual)
	}
	if expected != actual {
		v.logger.Debug("checksum mismatch", "coord", c, "expected", expected, "actual", actual)
		return false, nil
	}
	return true, writeSidecar(sidecar, expected)
}

// published returns the repository's digest for c, "" when none is
// published. An aggregator has no artifact, so a local file for it is never
// verifiable.
func (v *ChecksumVerifier) published(ctx context.Context, c dependency.Coordinate) (string, bool, error) {
	o, err := v.resolver.Resolve(ctx, c)
	if err != nil {
		return "", false, err
	}
	if o.Aggregator {
		v.logger.Debug("local file for aggregator coordinate", "coord", c)
		return "", false, nil
	}
	if !o.HasChecksum() {
		return "", true, nil
	}

	var text string
	err = httputil.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = v.client.GetText(ctx, o.ChecksumURL)
		return err
	})
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeTransport, err, "fetch checksum for %s", c)
	}
	return parseDigest(text), true, nil
}

// parseDigest extracts the hex digest from checksum file contents, which may
// be followed by a file name.
func parseDigest(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func writeSidecar(path, digest string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(digest), 0o644)
}
