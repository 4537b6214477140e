package batch

import "context"

func feed(ctx context.Context, jobs []Job, jobCh chan<- Job) error {
	defer close(jobCh)

	for idx, job := range jobs {
		job.Index = idx
		select {
		case <-ctx.Done():
			return ctx.Err()
		case jobCh <- job:
		}
	}
	return nil
}
