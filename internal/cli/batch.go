package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/observability"
	"github.com/matzehuels/geofig/pkg/observability/prom"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// batchOpts holds the flags for the batch command.
type batchOpts struct {
	render  renderFlags
	metrics string // Prometheus textfile path
	strict  bool   // exit non-zero when any figure fails
	noTUI   bool   // force log output on a terminal
}

// batchCommand creates the batch command for rendering many banks at once.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch FILE|DIR...",
		Short: "Render many question banks concurrently",
		Long: `Render every figure block in the given files and directories on a worker
pool. Directories are searched recursively for .txt, .md, .fig, .yaml and
.yml files. Identical blocks are rendered once.

On a terminal a live progress view is shown; otherwise one log line is
written per figure. With --metrics the run's counters and timings are
written as a Prometheus textfile.`,
		Example: `  geofig batch banks/ -o figures/ -w 8
  geofig batch a.txt b.txt --metrics /var/lib/node_exporter/geofig.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args, &opts)
		},
	}

	opts.render.register(cmd, true)
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any figure fails")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "disable the interactive progress view")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, args []string, opts *batchOpts) error {
	ctx := cmd.Context()
	cfg, popts, err := c.resolve(cmd, &opts.render)
	if err != nil {
		return err
	}
	metricsPath := cfg.Batch.MetricsFile
	if cmd.Flags().Changed("metrics") {
		metricsPath = opts.metrics
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	jobs, err := loadJobs(files)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		printWarning("no figure blocks found in %d files", len(files))
		return nil
	}

	var metrics *prom.Metrics
	if metricsPath != "" {
		metrics = prom.New()
		observability.SetPipelineHooks(metrics)
		observability.SetCacheHooks(metrics)
		defer observability.Reset()
	}

	runner, runID := c.newRunner(true)
	defer runner.Close()
	c.Logger.Info("batch start", "run", runID, "files", len(files), "figures", len(jobs), "workers", popts.Workers)

	prog := newProgress(c.Logger)
	var results []*pipeline.Result
	if isTerminal(os.Stderr) && !opts.noTUI {
		results, err = c.runBatchTUI(ctx, runner, jobs, popts)
	} else {
		results, err = runner.RunBatch(ctx, jobs, popts, func(done, total int, res *pipeline.Result) {
			logResult(c.Logger, done, total, res)
		})
	}
	if err != nil {
		return err
	}

	written := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		paths, err := geoio.WriteArtifacts(cfg.Render.OutDir, res.ID, res.Artifacts, res.Metadata)
		if err != nil {
			return err
		}
		written += len(paths)
	}
	prog.done(fmt.Sprintf("Wrote %d files for %d figures", written, len(results)))

	if metrics != nil {
		if err := metrics.WriteTextfile(metricsPath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		printFile(metricsPath)
	}

	fmt.Fprint(stdout, summaryTable(results))

	if err := ctx.Err(); err != nil {
		return err
	}
	if st := pipeline.Summarize(results); opts.strict && st.Failed > 0 {
		return fmt.Errorf("%d of %d figures failed", st.Failed, st.Total)
	}
	return nil
}

// runBatchTUI runs the batch behind the bubbletea progress view. Quitting
// the view cancels the remaining figures.
func (c *CLI) runBatchTUI(ctx context.Context, runner *pipeline.Runner, jobs []pipeline.Job, opts pipeline.Options) ([]*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBatchModel(len(jobs), cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var (
		results  []*pipeline.Result
		runErr   error
		finished = make(chan struct{})
	)
	go func() {
		defer close(finished)
		results, runErr = runner.RunBatch(ctx, jobs, opts, func(done, total int, res *pipeline.Result) {
			p.Send(figureDoneMsg{done: done, total: total, res: res})
		})
		p.Send(batchDoneMsg{})
	}()

	final, err := p.Run()
	if err != nil && ctx.Err() == nil {
		cancel()
		<-finished
		return nil, fmt.Errorf("progress view: %w", err)
	}
	<-finished
	if m, ok := final.(BatchModel); ok && m.Aborted {
		return results, context.Canceled
	}
	return results, runErr
}
