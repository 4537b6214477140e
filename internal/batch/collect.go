package batch

import (
	"container/heap"
	"context"
	"io"

	"github.com/palantir/stacktrace"
)

// collect hands results to report in job order, holding early arrivals in a heap.
func collect(ctx context.Context, resultCh <-chan Result, report func(Result) error) error {
	next := 0
	emit := func(r Result) error {
		if err := report(r); err != nil {
			return stacktrace.Propagate(err, "report error for %s", r.Job.Input)
		}
		next++
		return nil
	}

	h := make(resultHeap, 0, 4)
	for {
		var result Result
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok = <-resultCh:
		}
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(h) == 0 {
				return nil
			}
			return io.ErrUnexpectedEOF
		}
		if result.Job.Index != next {
			heap.Push(&h, result)
			continue
		}
		if err := emit(result); err != nil {
			return err
		}

		// drain results that were waiting on this one
		for len(h) > 0 && h[0].Job.Index == next {
			if err := emit(heap.Pop(&h).(Result)); err != nil {
				return err
			}
		}
	}
}
