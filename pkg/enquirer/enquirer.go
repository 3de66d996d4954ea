// Package enquirer asks a single repository about a coordinate.
//
// An [Enquirer] ends in one of three states:
//
//   - resolved artifact: an [dependency.Outcome] with ArtifactURL set and,
//     when the repository publishes one, ChecksumURL
//   - resolved aggregator: only the descriptor exists
//   - unresolved: nil
package enquirer

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/probe"
	"github.com/matzehuels/depfetch/pkg/strategy"
)

// Enquirer resolves coordinates against one repository.
type Enquirer interface {
	Repository() dependency.Repository
	// Enquire returns nil when the repository has neither the artifact nor
	// its descriptor.
	Enquire(ctx context.Context, c dependency.Coordinate) *dependency.Outcome
}

// Factory builds probing enquirers that share strategies and a prober.
type Factory struct {
	Layouts   []strategy.PathStrategy // Jar layouts, mediated in order
	Algorithm string                  // Checksum sidecar algorithm, e.g. "SHA-1"
	POM       strategy.PathStrategy   // Descriptor candidates
	Prober    probe.Prober
	Logger    *log.Logger
}

// NewFactory returns the standard composition: release then snapshot
// layouts mediated by prober, the checksum sidecar of whichever jar was
// found, and the POM descriptor.
func NewFactory(prober probe.Prober, algorithm string, logger *log.Logger) *Factory {
	return &Factory{
		Layouts:   []strategy.PathStrategy{strategy.Release(), strategy.Snapshot()},
		Algorithm: algorithm,
		POM:       strategy.POM(),
		Prober:    prober,
		Logger:    logger,
	}
}

// New returns an Enquirer for repo.
func (f *Factory) New(repo dependency.Repository) Enquirer {
	logger := f.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &probing{
		repo:      repo,
		layouts:   f.Layouts,
		algorithm: f.Algorithm,
		pom:       f.POM,
		prober:    f.Prober,
		logger:    logger.With("repo", repo.Name),
	}
}

// All returns one Enquirer per repository, in order.
func (f *Factory) All(repos []dependency.Repository) []Enquirer {
	out := make([]Enquirer, len(repos))
	for i, r := range repos {
		out[i] = f.New(r)
	}
	return out
}

type probing struct {
	repo      dependency.Repository
	layouts   []strategy.PathStrategy
	algorithm string
	pom       strategy.PathStrategy
	prober    probe.Prober
	logger    *log.Logger
}

func (e *probing) Repository() dependency.Repository { return e.repo }

// Enquire probes each URL at most once: mediation and candidate probing
// share a per-call memo, and the checksum is only looked up beside the jar
// that was found.
func (e *probing) Enquire(ctx context.Context, c dependency.Coordinate) *dependency.Outcome {
	e.logger.Debug("enquiring", "coord", c)

	memo := &memoProber{inner: e.prober, seen: make(map[string]bool)}
	artifact := strategy.Mediating(memo, e.layouts...)

	artifactURL, ok := first(ctx, memo, artifact.PathsTo(ctx, e.repo, c))
	if !ok {
		if _, ok := first(ctx, memo, e.pom.PathsTo(ctx, e.repo, c)); ok {
			e.logger.Debug("aggregator", "coord", c)
			return dependency.NewAggregator(e.repo)
		}
		return nil
	}

	checksumURL, _ := first(ctx, memo, []string{strategy.ChecksumURL(e.algorithm, artifactURL)})
	o, err := dependency.NewOutcome(e.repo, artifactURL, checksumURL)
	if err != nil {
		e.logger.Debug("discarding outcome", "coord", c, "err", err)
		return nil
	}
	return o
}

func first(ctx context.Context, p probe.Prober, candidates []string) (string, bool) {
	for _, u := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if p.Reachable(ctx, u) {
			return u, true
		}
	}
	return "", false
}

// memoProber remembers answers for the duration of one Enquire call.
// It is not safe for concurrent use.
type memoProber struct {
	inner probe.Prober
	seen  map[string]bool
}

func (m *memoProber) Reachable(ctx context.Context, u string) bool {
	if ok, hit := m.seen[u]; hit {
		return ok
	}
	ok := m.inner.Reachable(ctx, u)
	if ctx.Err() == nil {
		m.seen[u] = ok
	}
	return ok
}
