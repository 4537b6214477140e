// Package batch runs a function over many files with a pool of workers and reports
// the results in input order.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one file to process.
type Job struct {
	Index  int
	Input  string
	Output string
}

// Result is the outcome of a Job. A failed job sets Err; it does not stop the batch.
type Result struct {
	Job     Job
	InSize  int64
	OutSize int64
	Blocks  int
	Err     error
}

// Func processes a single job.
type Func func(ctx context.Context, job Job) Result

// Run processes jobs with numWorker workers (runtime.NumCPU when 0) and calls report
// once per job, in job order. It stops early when ctx is cancelled or report fails.
func Run(ctx context.Context, jobs []Job, numWorker int, process Func, report func(Result) error) error {
	jobCh := make(chan Job, 1)
	resultCh := make(chan Result, 1)

	if numWorker == 0 {
		numWorker = runtime.NumCPU()
	}
	if numWorker <= 0 {
		numWorker = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	workers, wctx := errgroup.WithContext(ctx)

	workers.Go(func() error {
		return feed(wctx, jobs, jobCh)
	})
	for range numWorker {
		workers.Go(func() error {
			return work(wctx, process, jobCh, resultCh)
		})
	}

	g.Go(func() error {
		defer close(resultCh)
		return workers.Wait()
	})
	g.Go(func() error {
		return collect(ctx, resultCh, report)
	})

	return g.Wait()
}
