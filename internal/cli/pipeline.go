package cli

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depfetch/pkg/config"
	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/download"
	"github.com/matzehuels/depfetch/pkg/enquirer"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/httputil"
	"github.com/matzehuels/depfetch/pkg/manifest"
	"github.com/matzehuels/depfetch/pkg/mirror"
	"github.com/matzehuels/depfetch/pkg/observability"
	"github.com/matzehuels/depfetch/pkg/overrides"
	"github.com/matzehuels/depfetch/pkg/probe"
	"github.com/matzehuels/depfetch/pkg/resolver"
)

// resolveConcurrency bounds how many coordinates are resolved at once by
// commands that report on the whole set.
const resolveConcurrency = 8

// pipeline is the wired component graph for one command run.
type pipeline struct {
	cfg          config.Config
	set          dependency.DependencySet
	repositories []dependency.Repository
	counters     *observability.Counters
	resolver     *resolver.Resolver
	downloader   *download.Downloader
	overrides    *overrides.Table
}

// newPipeline loads config and manifest and wires prober, enquirers,
// resolver, verifier and downloader.
func (c *CLI) newPipeline(ctx context.Context, args []string) (*pipeline, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	path := manifestPath(args, cfg)
	set, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded manifest", "path", path, "dependencies", set.Count())

	counters := observability.NewCounters()
	prober := probe.NewHTTP(probe.Options{
		Timeout:   cfg.ProbeTimeout,
		UserAgent: cfg.UserAgent,
		Logger:    c.Logger,
		Hooks:     counters,
	})

	repos := mirror.New(cfg.Fallbacks).Select(set.Repositories, set.Mirrors)
	for _, r := range repos {
		c.Logger.Debug("repository", "name", r.Name, "url", r.URL)
	}

	table := c.loadOverrides(ctx, cfg)
	factory := enquirer.NewFactory(prober, cfg.Algorithm.Name(), c.Logger)
	res := resolver.New(factory.All(repos), resolver.Options{
		Overrides: table,
		Policy:    cfg.Policy,
		Prober:    prober,
		Affinity:  cfg.Affinity,
		Logger:    c.Logger,
		Hooks:     counters,
	})

	client := httputil.NewClient(cfg.DownloadTimeout, map[string]string{"User-Agent": cfg.UserAgent})
	layout := cfg.Layout()
	verifier := download.NewChecksumVerifier(layout, cfg.Algorithm, res, client, c.Logger)
	dl := download.New(layout, res, verifier, download.Options{
		Client:  client,
		Retries: cfg.Retries,
		Logger:  c.Logger,
		Hooks:   counters,
	})

	return &pipeline{
		cfg:          cfg,
		set:          set,
		repositories: repos,
		counters:     counters,
		resolver:     res,
		downloader:   dl,
		overrides:    table,
	}, nil
}

// loadOverrides reads the pre-resolution table from Redis when configured,
// otherwise from the overrides file. Failures yield an empty table.
func (c *CLI) loadOverrides(ctx context.Context, cfg config.Config) *overrides.Table {
	if cfg.Redis != nil {
		store, err := overrides.NewRedisStore(ctx, *cfg.Redis, c.Logger)
		if err != nil {
			c.Logger.Warn("overrides unavailable", "err", err)
			return overrides.NewTable(nil)
		}
		defer store.Close()
		t, err := store.Load(ctx)
		if err != nil {
			c.Logger.Warn("overrides unavailable", "err", err)
			return overrides.NewTable(nil)
		}
		c.Logger.Debug("loaded overrides", "source", "redis", "entries", t.Len())
		return t
	}
	if path := c.overridesPath(cfg); path != "" {
		t := overrides.ReadFile(path, c.Logger)
		c.Logger.Debug("loaded overrides", "source", path, "entries", t.Len())
		return t
	}
	return overrides.NewTable(nil)
}

// overridesPath prefers --overrides over the configured path.
func (c *CLI) overridesPath(cfg config.Config) string {
	if c.overridesFile != "" {
		return c.overridesFile
	}
	return cfg.OverridesPath
}

// resolution pairs a coordinate with its resolver answer.
type resolution struct {
	coord   dependency.Coordinate
	outcome *dependency.Outcome
	err     error
}

// resolveAll resolves every unique coordinate in the manifest concurrently.
// Unresolved coordinates are reported in the result, not as an error; the
// returned error is only a context error.
func (p *pipeline) resolveAll(ctx context.Context) ([]resolution, error) {
	coords := dependency.Unique(p.set.Dependencies)
	out := make([]resolution, len(coords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, coord := range coords {
		g.Go(func() error {
			o, err := p.resolver.Resolve(gctx, coord)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			out[i] = resolution{coord: coord, outcome: o, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// unresolved returns an UNRESOLVED_DEPENDENCY error naming how many of rs
// failed, or nil.
func unresolved(rs []resolution) error {
	n := 0
	for _, r := range rs {
		if r.err != nil {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeUnresolved, "%d of %d dependencies could not be resolved", n, len(rs))
}
