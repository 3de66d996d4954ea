package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/httputil"
	"github.com/matzehuels/depfetch/pkg/observability"
)

// AggregatorSentinel is written at the artifact path of a coordinate that
// resolved to an aggregator.
var AggregatorSentinel = []byte("bom-file")

// Options configures a [Downloader].
type Options struct {
	Client  *httputil.Client            // Artifact transport (default: httputil.NewClient with the depfetch User-Agent)
	Retries int                         // Attempts per artifact (default: 3)
	Backoff time.Duration               // Initial retry delay (default: 1s)
	Logger  *log.Logger                 // Progress output (default: discard)
	Hooks   observability.DownloadHooks // Download events (default: no-op)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Client == nil {
		o.Client = httputil.NewClient(0, map[string]string{"User-Agent": buildinfo.UserAgent()})
	}
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopDownloadHooks{}
	}
	return o
}

// Downloader fetches artifacts into a [Layout].
type Downloader struct {
	layout   Layout
	resolver Resolver
	verifier Verifier
	opts     Options
}

// New returns a Downloader. The verifier defaults to [ExistsVerifier] when nil.
func New(layout Layout, r Resolver, v Verifier, opts Options) *Downloader {
	if v == nil {
		v = ExistsVerifier{}
	}
	return &Downloader{layout: layout, resolver: r, verifier: v, opts: opts.WithDefaults()}
}

// Layout returns the store layout.
func (d *Downloader) Layout() Layout { return d.layout }

// Fetch returns the local path of the artifact for c, downloading it when
// the existing file does not verify. It returns "" and a nil error for
// aggregator coordinates.
//
// Errors: UNRESOLVED_DEPENDENCY when no repository has c, TRANSPORT when the
// transfer fails, CHECKSUM_MISMATCH when the downloaded file does not match
// the published digest.
func (d *Downloader) Fetch(ctx context.Context, c dependency.Coordinate) (string, error) {
	path := d.layout.ArtifactPath(c)

	if isSentinel(path) {
		d.opts.Hooks.OnSkip(ctx, c.String(), "aggregator")
		return "", nil
	}

	ok, err := d.verifier.Verify(ctx, path, c)
	if err != nil {
		d.opts.Logger.Debug("verification failed, refetching", "coord", c, "err", err)
	}
	if ok {
		d.opts.Hooks.OnSkip(ctx, c.String(), "verified")
		return path, nil
	}

	o, err := d.resolver.Resolve(ctx, c)
	if err != nil {
		return "", err
	}
	if o.Aggregator {
		if err := writeFile(path, AggregatorSentinel); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "record aggregator %s", c)
		}
		d.opts.Hooks.OnSkip(ctx, c.String(), "aggregator")
		return "", nil
	}

	_ = os.Remove(path)
	if sidecar := d.verifier.ChecksumFile(c); sidecar != "" {
		_ = os.Remove(sidecar)
	}

	d.opts.Logger.Info("downloading", "coord", c.Key())
	start := time.Now()
	n, err := d.transfer(ctx, o.ArtifactURL, path)
	d.opts.Hooks.OnDownload(ctx, c.String(), n, time.Since(start), err)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTransport, err, "download %s from %s", c, o.ArtifactURL)
	}
	d.opts.Logger.Debug("downloaded", "coord", c, "bytes", n, "duration", time.Since(start))

	ok, err = d.verifier.Verify(ctx, path, c)
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeTransport, err, "verify %s", c)
	}
	if !ok {
		_ = os.Remove(path)
		return "", errors.New(errors.ErrCodeChecksumMismatch, "downloaded %s does not match its published checksum", c)
	}
	return path, nil
}

// transfer streams url into a temporary file beside path and renames it into
// place once complete.
func (d *Downloader) transfer(ctx context.Context, url, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.part", filepath.Base(path), uuid.NewString()))
	defer os.Remove(tmp)

	var n int64
	err := httputil.Retry(ctx, d.opts.Retries, d.opts.Backoff, func() error {
		body, err := d.opts.Client.Open(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()

		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		n, err = io.Copy(f, body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return httputil.Transient(err)
		}
		return nil
	})
	if err != nil {
		return n, err
	}
	return n, os.Rename(tmp, path)
}

func isSentinel(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() != int64(len(AggregatorSentinel)) {
		return false
	}
	data, err := os.ReadFile(path)
	return err == nil && bytes.Equal(data, AggregatorSentinel)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
