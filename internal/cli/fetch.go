package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/inject"
)

// fetchOptions holds flags for the fetch command.
type fetchOptions struct {
	classpath string
	libDir    string
	export    string
}

// fetchCommand creates the fetch command, which materializes every
// dependency of a manifest into the local store.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch [manifest]",
		Short: "Download and verify every dependency in a manifest",
		Long: `Resolve each dependency against the manifest's repositories and mirrors,
download it into the local store, and verify it against the published checksum.

Transitive dependencies are fetched depth-first in declaration order. The first
dependency that cannot be fetched stops the run.`,
		Example: `  depfetch fetch
  depfetch fetch small.json --classpath build/classpath.txt
  depfetch fetch --lib build/lib --export overrides.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.classpath, "classpath", "", "write the materialized paths as a classpath file")
	cmd.Flags().StringVar(&opts.libDir, "lib", "", "link every artifact into this directory")
	cmd.Flags().StringVar(&opts.export, "export", "", "save resolver results as a pre-resolution document")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, args []string, opts fetchOptions) error {
	p, err := c.newPipeline(ctx, args)
	if err != nil {
		return err
	}

	classpath := inject.NewClasspathSink()
	sinks := []inject.Sink{classpath}
	if opts.libDir != "" {
		sinks = append(sinks, inject.LinkSink{Dir: opts.libDir})
	}
	sink := inject.SinkFunc(func(ctx context.Context, coord dependency.Coordinate, path string) error {
		for _, s := range sinks {
			if err := s.Accept(ctx, coord, path); err != nil {
				return err
			}
		}
		return nil
	})

	prog := newProgress(c.Logger)
	spin := c.startSpinner(ctx, fmt.Sprintf("Fetching %d dependencies...", p.set.Count()))
	err = inject.New(p.downloader, sink, c.Logger).Materialize(ctx, p.set.Dependencies)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Fetched %d artifacts", len(classpath.Paths()))

	if opts.classpath != "" {
		if err := classpath.WriteFile(opts.classpath); err != nil {
			return err
		}
		printFile(c.Err, opts.classpath)
	}
	if opts.export != "" {
		if err := c.exportFile(opts.export, p.resolver.Results()); err != nil {
			return err
		}
	}

	printSuccess(c.Err, "%s", p.counters.Snapshot())
	printKeyValue(c.Err, "Store", p.cfg.DownloadDir)
	printKeyValue(c.Err, "Repositories", fmt.Sprint(len(p.repositories)))
	for _, path := range classpath.Paths() {
		fmt.Fprintln(c.Out, path)
	}
	return nil
}
