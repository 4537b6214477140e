package batch

import "context"

func work(ctx context.Context, process Func, jobCh <-chan Job, resultCh chan<- Result) error {
	for {
		var job Job
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok = <-jobCh:
		}
		if !ok {
			return nil
		}

		result := process(ctx, job)
		result.Job = job

		select {
		case <-ctx.Done():
			return ctx.Err()
		case resultCh <- result:
		}
	}
}
