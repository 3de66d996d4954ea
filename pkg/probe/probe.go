// Package probe checks whether a candidate URL is currently retrievable.
//
// Probing is best-effort: every failure (unsupported scheme, DNS error,
// timeout, non-200 status) is reported as "unreachable" and never as an
// error. Callers treat a false result as "try the next candidate".
package probe

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/observability"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// Prober reports whether a URL is reachable.
// Implementations must be safe for concurrent use.
type Prober interface {
	Reachable(ctx context.Context, rawURL string) bool
}

// Func adapts an ordinary function to [Prober].
type Func func(ctx context.Context, rawURL string) bool

// Reachable calls f(ctx, rawURL).
func (f Func) Reachable(ctx context.Context, rawURL string) bool { return f(ctx, rawURL) }

// Options configures an [HTTP] prober.
type Options struct {
	Timeout   time.Duration           // Per-probe timeout (default: DefaultTimeout)
	UserAgent string                  // User-Agent header (default: buildinfo.UserAgent())
	Client    *http.Client            // Transport to use (default: a client with Timeout)
	Logger    *log.Logger             // Debug output (default: discard)
	Hooks     observability.ProbeHooks // Probe events (default: no-op)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = buildinfo.UserAgent()
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopProbeHooks{}
	}
	return o
}

// HTTP probes http and https URLs. Any other scheme is unreachable without I/O.
type HTTP struct {
	opts Options
}

// NewHTTP returns an HTTP prober.
func NewHTTP(opts Options) *HTTP {
	return &HTTP{opts: opts.WithDefaults()}
}

// Reachable sends a HEAD request, falling back to GET when the server does
// not allow HEAD. Only status 200 counts as reachable.
func (p *HTTP) Reachable(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		p.opts.Logger.Debug("probe skipped", "url", rawURL, "reason", "unsupported scheme")
		return false
	}

	start := time.Now()
	ok := p.check(ctx, rawURL)
	elapsed := time.Since(start)
	p.opts.Hooks.OnProbe(ctx, rawURL, ok, elapsed)
	p.opts.Logger.Debug("probe", "url", rawURL, "reachable", ok, "duration", elapsed)
	return ok
}

func (p *HTTP) check(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	status, err := p.do(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = p.do(ctx, http.MethodGet, rawURL)
	}
	return err == nil && status == http.StatusOK
}

func (p *HTTP) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.opts.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
