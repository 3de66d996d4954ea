// Package inject walks a declared dependency tree, fetches every node and
// hands the local files to a [Sink].
//
// The walk is depth-first, parent before children, in declaration order.
// A fetch error stops the whole walk. A sink error is logged and only the
// subtree below the failing node is skipped.
package inject

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// Fetcher materializes one coordinate. An empty path with a nil error means
// there is nothing to place (an aggregator).
type Fetcher interface {
	Fetch(ctx context.Context, c dependency.Coordinate) (string, error)
}

// Sink receives materialized artifacts.
type Sink interface {
	Accept(ctx context.Context, c dependency.Coordinate, path string) error
}

// SinkFunc adapts an ordinary function to [Sink].
type SinkFunc func(ctx context.Context, c dependency.Coordinate, path string) error

// Accept calls f.
func (f SinkFunc) Accept(ctx context.Context, c dependency.Coordinate, path string) error {
	return f(ctx, c, path)
}

// Injector drives a Fetcher over a dependency tree.
type Injector struct {
	fetcher Fetcher
	sink    Sink
	logger  *log.Logger
}

// New returns an Injector. A nil logger discards output.
func New(f Fetcher, s Sink, logger *log.Logger) *Injector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Injector{fetcher: f, sink: s, logger: logger}
}

// Materialize fetches roots and their transitive children. The returned
// error is INJECTION_FAILED and wraps the fetch failure of the first
// coordinate that could not be fetched.
func (i *Injector) Materialize(ctx context.Context, roots []dependency.Coordinate) error {
	for _, c := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.visit(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (i *Injector) visit(ctx context.Context, c dependency.Coordinate) error {
	path, err := i.fetcher.Fetch(ctx, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInjectionFailed, err, "materialize %s", c)
	}
	if path == "" {
		i.logger.Debug("aggregator, nothing to place", "coord", c)
		return nil
	}

	if err := i.sink.Accept(ctx, c, path); err != nil {
		i.logger.Warn("sink rejected artifact, skipping its dependencies", "coord", c, "path", path, "err", err)
		return nil
	}
	i.logger.Debug("placed", "coord", c, "path", path)

	return i.Materialize(ctx, c.Transitive)
}
