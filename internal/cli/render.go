package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// renderCommand creates the render command for drawing the blocks of one file.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  renderFlags
		blocks []int
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the figure blocks of one file",
		Long: `Render every [FIGURE] block in FILE, or the whole file when it has no
markers. Each block is written as <file>-NN.<format> plus a .meta.json
sidecar. A block that cannot be drawn is written as a placeholder.`,
		Example: `  geofig render algebra.txt
  geofig render algebra.txt --block 3 -f svg,png -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], blocks, &flags)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntSliceVarP(&blocks, "block", "b", nil, "render only these blocks (1-based)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, only []int, flags *renderFlags) error {
	ctx := cmd.Context()
	cfg, opts, err := c.resolve(cmd, flags)
	if err != nil {
		return err
	}
	jobs, err := loadJobs([]string{path})
	if err != nil {
		return err
	}
	jobs, err = selectBlocks(jobs, only)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		printWarning("%s contains no figure blocks", path)
		return nil
	}
	// One file is rendered in order; a pool adds nothing the user sees.
	opts.Workers = 1

	runner, runID := c.newRunner(false)
	defer runner.Close()
	c.Logger.Debug("render", "run", runID, "file", path, "blocks", len(jobs))

	results, err := c.renderJobs(ctx, runner, jobs, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		paths, err := geoio.WriteArtifacts(cfg.Render.OutDir, res.ID, res.Artifacts, res.Metadata)
		if err != nil {
			return err
		}
		printResult(res, paths)
		if res.Failed() {
			failed++
		}
	}
	if failed > 0 {
		printNextStep("Inspect the failing blocks", fmt.Sprintf("%s validate %s", appName, path))
	}
	return ctx.Err()
}

// renderJobs runs jobs with a spinner on interactive terminals.
func (c *CLI) renderJobs(ctx context.Context, runner *pipeline.Runner, jobs []pipeline.Job, opts pipeline.Options) ([]*pipeline.Result, error) {
	if !isTerminal(os.Stderr) {
		return runner.RunBatch(ctx, jobs, opts, nil)
	}
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering 0/%d", len(jobs)))
	spinner.Start()
	defer spinner.Stop()
	return runner.RunBatch(ctx, jobs, opts, func(done, total int, _ *pipeline.Result) {
		spinner.SetMessage("Rendering %d/%d", done, total)
	})
}

// selectBlocks keeps the 1-based block numbers in only. An empty only
// keeps everything.
func selectBlocks(jobs []pipeline.Job, only []int) ([]pipeline.Job, error) {
	if len(only) == 0 {
		return jobs, nil
	}
	var out []pipeline.Job
	for i, job := range jobs {
		if slices.Contains(only, i+1) {
			out = append(out, job)
		}
	}
	for _, n := range only {
		if n < 1 || n > len(jobs) {
			return nil, fmt.Errorf("block %d out of range (file has %d)", n, len(jobs))
		}
	}
	return out, nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
