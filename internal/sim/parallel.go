package sim

import (
	"context"

	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/scene"
	"golang.org/x/sync/errgroup"
)

// Job describes one scene of a batch. Build is called on the job's own
// goroutine so that every scene stays single-threaded.
type Job struct {
	Name    string
	Build   func() (scene.Scene, error)
	Metrics func() []metrics.Metric
}

type Batch struct {
	jobs  []Job
	limit int
}

// NewBatch runs at most limit jobs at once. Non-positive means no limit.
func NewBatch(jobs []Job, limit int) *Batch {
	return &Batch{jobs: jobs, limit: limit}
}

// Run drives every job with cfg and returns results in job order. The first
// failure cancels the remaining jobs.
func (b *Batch) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}
	for i, job := range b.jobs {
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return err
			}
			sim := New(s)
			if job.Metrics != nil {
				for _, m := range job.Metrics() {
					sim.AddMetric(m)
				}
			}
			res, err := sim.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
