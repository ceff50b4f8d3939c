// Package smoke renders one canonical figure of every supported type and
// reports which types pass. It is the quickest way to see that a change
// to the solver or the renderer did not break a figure family.
package smoke

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/geofig/pkg/figure"
	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// Entry is the outcome for one figure type.
type Entry struct {
	Type     figure.Type
	Pass     bool
	Degraded bool
	State    pipeline.State
	Stage    string
	Err      error
	Paths    []string
}

// Report lists entries in the order of [figure.Types].
type Report struct {
	Dir     string
	Entries []Entry
}

// Passed counts passing types.
func (r Report) Passed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Pass {
			n++
		}
	}
	return n
}

// OK reports whether every type passed.
func (r Report) OK() bool { return r.Passed() == len(r.Entries) }

// Jobs returns the canonical blocks as pipeline jobs, one per type in
// [figure.Types] order. Job IDs are the type names.
func Jobs() []pipeline.Job {
	jobs := make([]pipeline.Job, 0, len(figure.Types))
	for _, t := range figure.Types {
		block, ok := Canonical[t]
		if !ok {
			continue
		}
		jobs = append(jobs, pipeline.Job{ID: string(t), Block: block, Source: "smoke"})
	}
	return jobs
}

// Run renders every canonical block with runner and writes the artifacts
// to dir, one file stem per type. A figure that fails is written as its
// placeholder and reported as failing; only option and I/O errors are
// returned.
func Run(ctx context.Context, runner *pipeline.Runner, dir string, opts pipeline.Options) (Report, error) {
	report := Report{Dir: dir}
	results, err := runner.RunBatch(ctx, Jobs(), opts, nil)
	if err != nil {
		return report, err
	}
	for _, res := range results {
		e := Entry{
			Type:     figure.Type(res.ID),
			Pass:     res.State == pipeline.StateRendered,
			Degraded: res.Metadata.Degraded,
			State:    res.State,
			Stage:    res.Stage,
			Err:      res.Err,
		}
		paths, err := geoio.WriteArtifacts(dir, res.ID, res.Artifacts, res.Metadata)
		if err != nil {
			return report, fmt.Errorf("write %s: %w", filepath.Join(dir, res.ID), err)
		}
		e.Paths = paths
		report.Entries = append(report.Entries, e)
	}
	return report, nil
}
