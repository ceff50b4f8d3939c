package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// defaultDebounce groups the burst of events an editor produces on save.
const defaultDebounce = 150 * time.Millisecond

// watchCommand creates the watch command, which re-renders banks on save.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    renderFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch FILE|DIR...",
		Short: "Re-render question banks whenever they change",
		Long: `Render the given files once, then watch them and re-render a file each
time it is saved. Blocks that did not change are served from memory, so
editing one figure in a long bank only redraws that figure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args, &flags, debounce)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-rendering")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, args []string, flags *renderFlags, debounce time.Duration) error {
	ctx := cmd.Context()
	cfg, opts, err := c.resolve(cmd, flags)
	if err != nil {
		return err
	}

	runner, runID := c.newRunner(true)
	defer runner.Close()
	logger := c.Logger.With("run", runID)

	fw, err := newFileWatcher(debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	var initial []string
	for _, arg := range args {
		files, err := fw.Add(arg)
		if err != nil {
			return err
		}
		initial = append(initial, files...)
	}
	slices.Sort(initial)

	written := make(map[string]bool)
	rerender := func(paths []string) {
		for _, path := range paths {
			if err := c.watchRender(ctx, runner, path, cfg.Render.OutDir, opts, written); err != nil {
				printError("%s: %v", path, err)
			}
		}
	}

	rerender(initial)
	printInfo("watching %d files %s", len(initial), StyleDim.Render("(ctrl+c to stop)"))
	fw.Run(ctx, rerender)
	return ctx.Err()
}

// watchRender renders one bank and reports how many figures changed. A
// memo hit is only skipped when written shows its files are already on
// disk; identical blocks share one memo entry but not one file stem.
func (c *CLI) watchRender(ctx context.Context, runner *pipeline.Runner, path, outDir string, opts pipeline.Options, written map[string]bool) error {
	jobs, err := loadJobs([]string{path})
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	results, err := runner.RunBatch(ctx, jobs, opts, nil)
	if err != nil {
		return err
	}
	fresh := 0
	for _, res := range results {
		if res.CacheHit && written[res.ID] {
			continue
		}
		fresh++
		paths, err := geoio.WriteArtifacts(outDir, res.ID, res.Artifacts, res.Metadata)
		if err != nil {
			return err
		}
		written[res.ID] = true
		printResult(res, paths)
	}
	prog.done(fmt.Sprintf("%s: %d redrawn, %d unchanged", filepath.Base(path), fresh, len(results)-fresh))
	return nil
}

// =============================================================================
// File Watcher
// =============================================================================

// fileWatcher wraps fsnotify with a debounce window. Files are watched
// through their parent directory because editors often save by renaming a
// temporary file over the original.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	// files are explicitly named files; dirs are watched recursively and
	// match any bank file.
	files map[string]bool
	dirs  map[string]bool
}

func newFileWatcher(debounce time.Duration, logger *log.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &fileWatcher{
		watcher:  w,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Add watches a file or a directory tree and returns the bank files found.
func (fw *fileWatcher) Add(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		fw.files[abs] = true
		return []string{abs}, fw.watcher.Add(filepath.Dir(abs))
	}

	var found []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			fw.dirs[p] = true
			return fw.watcher.Add(p)
		}
		if isBankFile(p) {
			found = append(found, p)
		}
		return nil
	})
	return found, err
}

// accepts reports whether a change to path should trigger a render.
func (fw *fileWatcher) accepts(path string) bool {
	if fw.files[path] {
		return true
	}
	return isBankFile(path) && fw.dirs[filepath.Dir(path)]
}

// Run delivers batches of changed files to onChange until ctx is done.
// Each batch is sorted and free of duplicates; files that no longer exist
// are dropped.
func (fw *fileWatcher) Run(ctx context.Context, onChange func([]string)) {
	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event, pending)
			if len(pending) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
				timerC = timer.C
			} else {
				timer.Reset(fw.debounce)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", "error", err)

		case <-timerC:
			timer, timerC = nil, nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				if _, err := os.Stat(p); err == nil {
					batch = append(batch, p)
				}
			}
			clear(pending)
			slices.Sort(batch)
			if len(batch) > 0 {
				onChange(batch)
			}
		}
	}
}

func (fw *fileWatcher) handle(event fsnotify.Event, pending map[string]bool) {
	path := filepath.Clean(event.Name)
	if event.Has(fsnotify.Create) && fw.dirs[filepath.Dir(path)] {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			if _, err := fw.Add(path); err != nil {
				fw.logger.Warn("watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	if fw.accepts(path) {
		fw.logger.Debug("changed", "path", path, "op", event.Op.String())
		pending[path] = true
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
