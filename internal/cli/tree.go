package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// treeOptions holds flags for the tree command.
type treeOptions struct {
	format  string
	output  string
	resolve bool
}

// treeCommand creates the tree command, which renders the declared
// dependency tree.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree [manifest]",
		Short: "Render the dependency tree as DOT or SVG",
		Long: `Render the declared transitive dependency tree.

With --resolve, each node is annotated with the repository that answers for it;
aggregators are drawn dashed and unresolved coordinates are greyed out.`,
		Example: `  depfetch tree > deps.dot
  depfetch tree small.json --resolve --format svg -o deps.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.resolve, "resolve", false, "annotate nodes with resolver results")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, args []string, opts treeOptions) error {
	if opts.format != formatDOT && opts.format != formatSVG {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", opts.format)
	}

	p, err := c.newPipeline(ctx, args)
	if err != nil {
		return err
	}

	var outcomes map[string]*dependency.Outcome
	if opts.resolve {
		spin := c.startSpinner(ctx, fmt.Sprintf("Resolving %d dependencies...", p.set.Count()))
		_, err := p.resolveAll(ctx)
		spin.Stop()
		if err != nil {
			return err
		}
		outcomes = p.resolver.Results()
	}

	data := []byte(render.ToDOT(p.set.Dependencies, outcomes))
	if opts.format == formatSVG {
		if data, err = render.RenderSVG(string(data)); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printFile(c.Err, opts.output)
	return nil
}
