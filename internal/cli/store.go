package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// storeCommand creates the artifact store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the local artifact store",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the download directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, cfg.DownloadDir)
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every downloaded artifact and checksum sidecar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if _, err := os.Stat(cfg.DownloadDir); os.IsNotExist(err) {
				printInfo(c.Err, "Store is empty")
				return nil
			}
			if err := cfg.Layout().Clear(); err != nil {
				return err
			}

			printSuccess(c.Err, "Cleared artifact store")
			printDetail(c.Err, "Directory: %s", cfg.DownloadDir)
			return nil
		},
	}
}
