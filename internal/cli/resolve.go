package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// resolveCommand creates the resolve command, which reports where each
// coordinate resolves without downloading anything.
func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [manifest]",
		Short: "Show which repository answers for each dependency",
		Long: `Resolve every unique coordinate in the manifest and print the answering
repository and artifact URL. Aggregators (descriptor-only coordinates) are
marked. Nothing is downloaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args)
		},
	}
}

func (c *CLI) runResolve(ctx context.Context, args []string) error {
	p, err := c.newPipeline(ctx, args)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spin := c.startSpinner(ctx, fmt.Sprintf("Resolving %d dependencies...", p.set.Count()))
	rs, err := p.resolveAll(ctx)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Resolved against %d repositories", len(p.repositories))

	rows := make([]resolveRow, len(rs))
	for i, r := range rs {
		rows[i] = resolveRow{Coord: r.coord.String()}
		if r.outcome != nil {
			rows[i].Repository = r.outcome.Repository.Name
			rows[i].Aggregator = r.outcome.Aggregator
			rows[i].URL = r.outcome.ArtifactURL
		}
	}
	printResolveTable(c.Out, rows)

	return unresolved(rs)
}
