package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// bankExts are the extensions picked up when a directory is given.
var bankExts = []string{".txt", ".md", ".fig", ".yaml", ".yml"}

func isBankFile(path string) bool {
	return slices.Contains(bankExts, strings.ToLower(filepath.Ext(path)))
}

// expandInputs turns file and directory arguments into a sorted list of
// bank files. Directories are walked recursively; one without any bank file
// is an input error.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		before := len(files)
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isBankFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if len(files) == before {
			return nil, geoerrors.New(geoerrors.ErrCodeInvalidInput,
				"%s holds no question bank files (%s)", arg, strings.Join(bankExts, ", "))
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// loadJobs reads every block from files. IDs must be unique across the
// batch because they become file stems, so a clash is suffixed with the
// parent directory.
func loadJobs(files []string) ([]pipeline.Job, error) {
	var jobs []pipeline.Job
	seen := make(map[string]int)
	for _, path := range files {
		blocks, err := geoio.ReadBlocks(path)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			id := b.ID
			if n := seen[id]; n > 0 {
				id = filepath.Base(filepath.Dir(path)) + "-" + id
			}
			seen[b.ID]++
			jobs = append(jobs, pipeline.Job{ID: id, Block: b.Text, Source: b.Source})
		}
	}
	return jobs, nil
}
