// Package resolver turns coordinates into resolution outcomes, once per run.
//
// Resolution precedence for a coordinate that is not cached yet:
//
//  1. Pre-resolved override, looked up by the coordinate's full string form.
//     Aggregator entries are accepted as-is; other entries are accepted
//     subject to the configured [Policy].
//  2. Repository affinity: when the coordinate lists preferred repository
//     names, only those enquirers are asked, in list order.
//  3. Every enquirer, concurrently. The first outcome to arrive wins.
//
// Outcomes (including "absent") are memoized per [dependency.Key] for the
// lifetime of the [Resolver]. Concurrent callers for the same key share one
// computation.
package resolver

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/enquirer"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/observability"
	"github.com/matzehuels/depfetch/pkg/probe"
)

// Policy selects how much liveness checking an override must pass.
type Policy string

const (
	// PolicyFull probes the artifact URL and, when present, the checksum URL.
	PolicyFull Policy = "full"
	// PolicyArtifact probes only the artifact URL.
	PolicyArtifact Policy = "artifact"
	// PolicyTrust accepts overrides without probing.
	PolicyTrust Policy = "trust"
)

// ParsePolicy validates a policy name. The empty string selects PolicyFull.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return PolicyFull, nil
	case PolicyFull, PolicyArtifact, PolicyTrust:
		return p, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown override validation policy %q (want full, artifact or trust)", s)
	}
}

// Overrides is a read-only pre-resolution table keyed by coordinate string form.
type Overrides interface {
	Get(coord string) (*dependency.Outcome, bool)
}

// Options configures a [Resolver].
type Options struct {
	Overrides Overrides                   // Pre-resolved outcomes (optional)
	Policy    Policy                      // Override validation policy (default: PolicyFull)
	Prober    probe.Prober                // Validates overrides (default: an HTTP prober)
	Affinity  map[dependency.Key][]string // Preferred repository names per coordinate
	Logger    *log.Logger                 // Debug output (default: discard)
	Hooks     observability.ResolveHooks  // Resolution events (default: no-op)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyFull
	}
	if o.Prober == nil {
		o.Prober = probe.NewHTTP(probe.Options{Logger: o.Logger})
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopResolveHooks{}
	}
	return o
}

type entry struct {
	coord   dependency.Coordinate
	outcome *dependency.Outcome
}

// Resolver is a memoizing, concurrency-safe coordinate resolver.
type Resolver struct {
	enquirers []enquirer.Enquirer
	opts      Options

	group singleflight.Group
	mu    sync.RWMutex
	cache map[dependency.Key]entry
}

// New returns a Resolver querying enquirers.
func New(enquirers []enquirer.Enquirer, opts Options) *Resolver {
	return &Resolver{
		enquirers: append([]enquirer.Enquirer(nil), enquirers...),
		opts:      opts.WithDefaults(),
		cache:     make(map[dependency.Key]entry),
	}
}

// Resolve returns the outcome for c. A coordinate no repository can produce
// yields an UNRESOLVED_DEPENDENCY error; that result is cached like any other.
// Repeated calls for the same key return the same *Outcome.
func (r *Resolver) Resolve(ctx context.Context, c dependency.Coordinate) (*dependency.Outcome, error) {
	key := c.Key()
	if e, ok := r.lookup(key); ok {
		r.opts.Hooks.OnCacheHit(ctx, c.String())
		return r.answer(c, e.outcome)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The shared computation outlives any one caller; each caller only stops
	// waiting when its own context ends. Probe timeouts bound the work.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key.String(), func() (any, error) {
		if e, ok := r.lookup(key); ok {
			return e.outcome, nil
		}
		start := time.Now()
		o := r.attempt(shared, c)

		repo := ""
		if o != nil {
			repo = o.Repository.Name
		}
		r.opts.Hooks.OnResolved(shared, c.String(), repo, time.Since(start))
		r.opts.Logger.Debug("resolved", "coord", c, "repo", repo, "url", artifactURL(o), "duration", time.Since(start))

		r.mu.Lock()
		r.cache[key] = entry{coord: c, outcome: o}
		r.mu.Unlock()
		return o, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return r.answer(c, res.Val.(*dependency.Outcome))
	}
}

// Results returns every cached non-absent outcome keyed by the string form
// of the coordinate that first resolved it. The result is a fresh map.
func (r *Resolver) Results() map[string]*dependency.Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*dependency.Outcome, len(r.cache))
	for _, e := range r.cache {
		if e.outcome != nil {
			out[e.coord.String()] = e.outcome
		}
	}
	return out
}

func (r *Resolver) lookup(key dependency.Key) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.cache[key]
	return e, ok
}

func (r *Resolver) answer(c dependency.Coordinate, o *dependency.Outcome) (*dependency.Outcome, error) {
	if o == nil {
		return nil, errors.New(errors.ErrCodeUnresolved, "unresolved dependency %s", c)
	}
	return o, nil
}

func (r *Resolver) attempt(ctx context.Context, c dependency.Coordinate) *dependency.Outcome {
	if o := r.override(ctx, c); o != nil {
		return o
	}
	if names, ok := r.opts.Affinity[c.Key()]; ok && len(names) > 0 {
		if o := r.preferred(ctx, c, names); o != nil {
			return o
		}
	}
	return r.parallel(ctx, c)
}

func (r *Resolver) override(ctx context.Context, c dependency.Coordinate) *dependency.Outcome {
	if r.opts.Overrides == nil {
		return nil
	}
	o, ok := r.opts.Overrides.Get(c.String())
	if !ok || o == nil {
		return nil
	}
	if err := o.Validate(); err != nil {
		r.opts.Logger.Debug("ignoring malformed override", "coord", c, "err", err)
		r.opts.Hooks.OnOverride(ctx, c.String(), false)
		return nil
	}

	accepted := o.Aggregator || r.live(ctx, o)
	r.opts.Hooks.OnOverride(ctx, c.String(), accepted)
	if !accepted {
		r.opts.Logger.Debug("stale override, resolving live", "coord", c, "url", o.ArtifactURL)
		return nil
	}
	return o
}

func (r *Resolver) live(ctx context.Context, o *dependency.Outcome) bool {
	switch r.opts.Policy {
	case PolicyTrust:
		return true
	case PolicyArtifact:
		return r.opts.Prober.Reachable(ctx, o.ArtifactURL)
	default:
		if !r.opts.Prober.Reachable(ctx, o.ArtifactURL) {
			return false
		}
		return !o.HasChecksum() || r.opts.Prober.Reachable(ctx, o.ChecksumURL)
	}
}

func (r *Resolver) preferred(ctx context.Context, c dependency.Coordinate, names []string) *dependency.Outcome {
	for _, name := range names {
		for _, e := range r.enquirers {
			if e.Repository().Name != name {
				continue
			}
			if o := e.Enquire(ctx, c); o != nil {
				return o
			}
		}
	}
	return nil
}

// parallel asks every enquirer at once and returns the first non-nil
// outcome. Slower enquirers run to completion; their results are dropped.
func (r *Resolver) parallel(ctx context.Context, c dependency.Coordinate) *dependency.Outcome {
	results := make(chan *dependency.Outcome, len(r.enquirers))
	for _, e := range r.enquirers {
		go func(e enquirer.Enquirer) {
			results <- e.Enquire(ctx, c)
		}(e)
	}
	for range r.enquirers {
		if o := <-results; o != nil {
			return o
		}
	}
	return nil
}

func artifactURL(o *dependency.Outcome) string {
	switch {
	case o == nil:
		return "[FAILED TO RESOLVE]"
	case o.Aggregator:
		return "[AGGREGATOR]"
	default:
		return o.ArtifactURL
	}
}
