// Package cli implements the geofig command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geofig/pkg/buildinfo"
	"github.com/matzehuels/geofig/pkg/cache"
	"github.com/matzehuels/geofig/pkg/config"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "geofig"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config. Empty means look for geofig.toml
	// from the working directory upwards.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "geofig renders geometry figures from textual specs",
		Long: `geofig turns textual descriptions of geometry figures (triangles,
circles, polygons, solids) into SVG, PNG and PDF images. Blocks that cannot
be drawn still produce a labelled placeholder so a batch never loses a figure.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: nearest "+config.FileName+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.smokeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads --config, or the nearest geofig.toml, or the defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			path = config.Find(wd)
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	c.Logger.Debug("loading config", "path", path)
	return config.Load(path)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. With memo set, results
// are kept in memory for the life of the process under a fresh run id so
// that two runs never share entries.
func (c *CLI) newRunner(memo bool) (*pipeline.Runner, string) {
	runID := newRunID()
	if !memo {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), runID
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "run:"+runID+":")
	return pipeline.NewRunner(cache.NewMemoryCache(), keyer, c.Logger), runID
}

// newRunID returns a short random identifier for log correlation.
func newRunID() string {
	return uuid.NewString()[:8]
}
