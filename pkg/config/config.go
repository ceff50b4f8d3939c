// Package config loads geofig.toml.
//
// Every key is optional: [Default] supplies all values and a file only
// overrides what it names. Command-line flags override the file in turn.
//
//	[canvas]
//	width = 800
//	height = 600
//	margin = 40
//
//	[render]
//	formats = ["svg", "png"]
//	out_dir = "figures"
//
//	[batch]
//	workers = 4
//	timeout = "10s"
//	metrics_file = "geofig.prom"
//
//	[[style]]
//	role = "hidden"
//	color = "#7f8c8d"
//	dash = [2, 2]
package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/pipeline"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
	"github.com/matzehuels/geofig/pkg/solver"
)

// FileName is the config file looked up by [Find].
const FileName = "geofig.toml"

// Config is the decoded file.
type Config struct {
	Canvas layout.Canvas     `toml:"canvas"`
	Solver solver.Options    `toml:"solver"`
	Layout layout.Options    `toml:"layout"`
	Render Render            `toml:"render"`
	Batch  Batch             `toml:"batch"`
	Styles []styles.Override `toml:"style"`
}

// Render selects outputs.
type Render struct {
	Formats []string `toml:"formats" validate:"dive,oneof=svg png pdf json"`
	OutDir  string   `toml:"out_dir"`
}

// Batch tunes the worker pool.
type Batch struct {
	Workers     int      `toml:"workers" validate:"gte=0,lte=256"`
	Timeout     Duration `toml:"timeout"`
	MetricsFile string   `toml:"metrics_file"`
}

// Duration decodes TOML strings such as "10s" or "1m30s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

var configValidator = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: layout.DefaultCanvas(),
		Solver: solver.Options{}.WithDefaults(),
		Layout: layout.Options{}.WithDefaults(),
		Render: Render{Formats: []string{string(render.FormatSVG)}, OutDir: "."},
		Batch:  Batch{Timeout: Duration{pipeline.DefaultTimeout}},
	}
}

// Load reads path over the defaults. Unknown keys are an error so that
// typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, geoerrors.Wrap(geoerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, geoerrors.Wrap(geoerrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, geoerrors.New(geoerrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Find returns the path of geofig.toml in dir or any parent, or "" when
// there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, FileName)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks ranges and builds the style table once to surface bad
// overrides early.
func (c Config) Validate() error {
	if err := configValidator.Struct(c.Canvas); err != nil {
		return geoerrors.Wrap(geoerrors.ErrCodeInvalidConfig, err, "canvas")
	}
	if err := configValidator.Struct(c.Render); err != nil {
		return geoerrors.Wrap(geoerrors.ErrCodeInvalidConfig, err, "render")
	}
	if err := configValidator.Struct(c.Batch); err != nil {
		return geoerrors.Wrap(geoerrors.ErrCodeInvalidConfig, err, "batch")
	}
	if c.Batch.Timeout.Duration < 0 {
		return geoerrors.New(geoerrors.ErrCodeInvalidConfig, "batch: timeout must not be negative")
	}
	if _, err := styles.NewTable(c.Styles...); err != nil {
		return err
	}
	return nil
}

// Formats parses the configured formats.
func (c Config) Formats() ([]render.Format, error) {
	return render.ParseFormats(strings.Join(c.Render.Formats, ","))
}

// PipelineOptions converts c into pipeline options.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	formats, err := c.Formats()
	if err != nil {
		return pipeline.Options{}, err
	}
	table, err := styles.NewTable(c.Styles...)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Formats: formats,
		Canvas:  c.Canvas,
		Solver:  c.Solver,
		Layout:  c.Layout,
		Styles:  &table,
		Timeout: c.Batch.Timeout.Duration,
		Workers: c.Batch.Workers,
	}, nil
}
