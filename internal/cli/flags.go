package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geofig/pkg/config"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// renderFlags are the options shared by render, batch and watch. A flag
// that was not given leaves the config value alone.
type renderFlags struct {
	formats string
	outDir  string
	width   float64
	height  float64
	margin  float64
	timeout time.Duration
	workers int
}

func (f *renderFlags) register(cmd *cobra.Command, withWorkers bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output formats: svg,png,pdf,json (default from config)")
	fs.StringVarP(&f.outDir, "out", "o", "", "output directory (default from config)")
	fs.Float64Var(&f.width, "width", 0, "canvas width in pixels")
	fs.Float64Var(&f.height, "height", 0, "canvas height in pixels")
	fs.Float64Var(&f.margin, "margin", 0, "canvas margin in pixels")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-figure time limit")
	if withWorkers {
		fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent figures (0 = one per CPU)")
	}
}

// apply overlays the flags the user set on cfg.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("format") {
		cfg.Render.Formats = splitList(f.formats)
	}
	if fs.Changed("out") {
		cfg.Render.OutDir = f.outDir
	}
	if fs.Changed("width") {
		cfg.Canvas.Width = f.width
	}
	if fs.Changed("height") {
		cfg.Canvas.Height = f.height
	}
	if fs.Changed("margin") {
		cfg.Canvas.Margin = f.margin
	}
	if fs.Changed("timeout") {
		cfg.Batch.Timeout = config.Duration{Duration: f.timeout}
	}
	if fs.Lookup("workers") != nil && fs.Changed("workers") {
		cfg.Batch.Workers = f.workers
	}
}

// resolve loads the config, overlays flags and returns validated
// pipeline options.
func (c *CLI) resolve(cmd *cobra.Command, f *renderFlags) (config.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return cfg, pipeline.Options{}, err
	}
	f.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, pipeline.Options{}, err
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return cfg, opts, err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, nil
}

// splitList splits a comma-separated flag value, dropping empty parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
