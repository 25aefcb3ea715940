package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Stages are the three per-job operations, injected so the runner can be
// exercised with fakes. Progress callbacks may be called from the stage's
// goroutine at any rate.
type Stages struct {
	Download func(ctx context.Context, url, dest string, progress func(done, total int64)) error
	Extract  func(ctx context.Context, archivePath, dest string, progress func(done, total int64)) error
	Parse    func(ctx context.Context, site, dir string, progress func(entity string, percent int)) error
}

// Runner drives all jobs to a terminal state with at most limit jobs active
// at once. Admission is streaming: a waiting job starts as soon as a slot
// frees, in manifest order.
type Runner struct {
	stages Stages
	limit  int
	jobs   []*Job
}

func NewRunner(stages Stages, limit int, jobs []*Job) *Runner {
	if limit <= 0 {
		limit = 1
	}
	return &Runner{stages: stages, limit: limit, jobs: jobs}
}

// Run blocks until every job is Done or Error. Job failures are recorded on
// the job, never propagated; sibling jobs are unaffected.
func (r *Runner) Run(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for _, j := range r.jobs {
		j := j
		g.Go(func() error {
			r.runJob(ctx, j)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) runJob(ctx context.Context, j *Job) {
	if j.URL != "" {
		j.setState(State{Kind: StateDownloading})
		err := r.stages.Download(ctx, j.URL, j.ArchivePath, func(done, total int64) {
			j.setState(State{Kind: StateDownloading, Done: done, Total: total})
		})
		if err != nil {
			r.failJob(j, "download", err)
			return
		}
	}

	j.setState(State{Kind: StateUnzipping})
	err := r.stages.Extract(ctx, j.ArchivePath, j.ExtractDir, func(done, total int64) {
		pct := 0
		if total > 0 {
			pct = int(done * 100 / total)
		}
		j.setState(State{Kind: StateUnzipping, Percent: pct})
	})
	if err != nil {
		r.failJob(j, "decompression", err)
		return
	}

	j.setState(State{Kind: StateParsing})
	err = r.stages.Parse(ctx, j.Site, j.ExtractDir, func(entity string, percent int) {
		j.setState(State{Kind: StateParsing, Percent: percent, Entity: entity})
	})
	if err != nil {
		r.failJob(j, "parsing", err)
		return
	}

	j.setState(State{Kind: StateDone})
	slog.Info("job done", "job", j.Name, "site", j.Site)
}

func (r *Runner) failJob(j *Job, stage string, err error) {
	j.setState(State{Kind: StateError, Err: fmt.Sprintf("%s error: %v", stage, err)})
	slog.Error("job failed", "job", j.Name, "stage", stage, "error", err)
}

// Snapshot returns every job's current state, in manifest order.
func (r *Runner) Snapshot() []Snapshot {
	out := make([]Snapshot, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = Snapshot{Name: j.Name, State: j.State()}
	}
	return out
}

// Summary counts terminal outcomes.
func (r *Runner) Summary() (done, failed int) {
	for _, j := range r.jobs {
		switch j.State().Kind {
		case StateDone:
			done++
		case StateError:
			failed++
		}
	}
	return done, failed
}
