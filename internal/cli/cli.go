// Package cli implements the depfetch command-line interface.
//
// Commands:
//   - fetch: resolve, download and verify every dependency in a manifest
//   - resolve: report which repository answers for each coordinate
//   - tree: render the declared dependency tree as DOT or SVG
//   - overrides export: save resolver results as a pre-resolution document
//   - store: print or clear the local artifact store
//
// All commands accept --config (a depfetch TOML config) and --verbose.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/config"
)

const (
	// appName is the application name used for directories and display.
	appName = "depfetch"

	// defaultManifest is used when a command is given no manifest argument.
	defaultManifest = "depfetch.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; Err receives status lines and the spinner.
	Out io.Writer
	Err io.Writer

	configPath    string
	overridesFile string
	noProgress    bool
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level. Debug output disables the spinner
// so the two do not interleave.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.noProgress = level <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
// Each execution tags the logger with a fresh run id.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "depfetch resolves and downloads Maven-style dependencies",
		Long:          `depfetch resolves library coordinates against Maven-style repositories and mirrors, downloads the artifacts into a local store, and verifies them against published checksums.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.Logger = c.Logger.With("run", uuid.NewString()[:8])
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./depfetch.toml if present)")
	root.PersistentFlags().StringVar(&c.overridesFile, "overrides", "", "pre-resolution JSON document (overrides the config)")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.overridesCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// manifestPath picks the manifest from the positional args, the config, or
// the default file name, in that order.
func manifestPath(args []string, cfg config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Manifest != "" {
		return cfg.Manifest
	}
	return defaultManifest
}
