package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/overrides"
)

// overridesCommand creates the overrides command group.
func (c *CLI) overridesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage pre-resolution documents",
	}
	cmd.AddCommand(c.overridesExportCommand())
	return cmd
}

// overridesExportCommand creates the "overrides export" subcommand.
func (c *CLI) overridesExportCommand() *cobra.Command {
	var (
		output  string
		toRedis bool
	)

	cmd := &cobra.Command{
		Use:   "export [manifest]",
		Short: "Resolve a manifest and save the results for later runs",
		Long: `Resolve every dependency and save the outcomes as a pre-resolution document.
A later run that loads the document (--overrides, or the overrides/redis
config) skips live enquiry for every entry that still validates.

Existing entries in the target are kept unless re-resolved.`,
		Example: `  depfetch overrides export -o overrides.json
  depfetch overrides export --redis`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && !toRedis {
				return errors.New(errors.ErrCodeInvalidInput, "one of --output or --redis is required")
			}
			return c.runOverridesExport(cmd.Context(), args, output, toRedis)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a JSON document to this path")
	cmd.Flags().BoolVar(&toRedis, "redis", false, "write to the configured Redis hash")

	return cmd
}

func (c *CLI) runOverridesExport(ctx context.Context, args []string, output string, toRedis bool) error {
	p, err := c.newPipeline(ctx, args)
	if err != nil {
		return err
	}

	spin := c.startSpinner(ctx, fmt.Sprintf("Resolving %d dependencies...", p.set.Count()))
	rs, err := p.resolveAll(ctx)
	spin.Stop()
	if err != nil {
		return err
	}
	if err := unresolved(rs); err != nil {
		printWarning(c.Err, "%s; exporting the rest", errors.UserMessage(err))
	}

	results := p.resolver.Results()
	if output != "" {
		if err := c.exportFile(output, results); err != nil {
			return err
		}
	}
	if toRedis {
		if p.cfg.Redis == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "no [redis] section configured")
		}
		store, err := overrides.NewRedisStore(ctx, *p.cfg.Redis, c.Logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, results); err != nil {
			return err
		}
		printSuccess(c.Err, "Exported %d outcomes to redis %s", len(results), p.cfg.Redis.Addr)
	}
	return nil
}

// exportFile merges results into the JSON document at path.
func (c *CLI) exportFile(path string, results map[string]*dependency.Outcome) error {
	if err := overrides.NewFileStore(path, c.Logger).Save(context.Background(), results); err != nil {
		return err
	}
	printSuccess(c.Err, "Exported %d outcomes", len(results))
	printFile(c.Err, path)
	return nil
}
