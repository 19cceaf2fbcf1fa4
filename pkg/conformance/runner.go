package conformance

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"metaobj/pkg/driver"
)

// Options configure Run.
type Options struct {
	// Workers is the pool size; zero means one per CPU.
	Workers int
	// Config is used for every scenario runtime.
	Config driver.Config
	// Logger receives pool and runtime logs. Nil discards them.
	Logger logrus.FieldLogger
	// OnResult, if set, sees each result as it arrives.
	OnResult func(*Result)
}

// Report collects the results of a run, sorted by scenario name.
type Report struct {
	Results  []*Result
	Stats    PoolStats
	Duration time.Duration
}

// Failed returns the results that did not pass.
func (r *Report) Failed() []*Result {
	var failed []*Result
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Passed() int {
	return len(r.Results) - len(r.Failed())
}

// Run executes scenarios on a worker pool. When ctx ends early the scenarios
// already finished are reported along with ctx's error.
func Run(ctx context.Context, scenarios []Scenario, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	start := time.Now()
	pool := NewPool(opts.Workers, opts.Config, logger)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	submitErr := make(chan error, 1)
	go func() {
		var err error
		for i, s := range scenarios {
			if err = pool.Submit(&Job{Scenario: s, Seq: i}); err != nil {
				break
			}
		}
		submitErr <- errors.Join(err, pool.Shutdown(ctx))
	}()

	report := &Report{}
	for res := range pool.Results() {
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
		report.Results = append(report.Results, res)
	}
	err := <-submitErr

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Name < report.Results[j].Name })
	report.Stats = pool.Stats()
	report.Duration = time.Since(start)
	logger.WithFields(logrus.Fields{
		"passed":   report.Passed(),
		"failed":   len(report.Failed()),
		"duration": report.Duration,
	}).Info("conformance run finished")

	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}
	return report, err
}
