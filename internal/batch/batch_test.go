package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/palantir/stacktrace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Input: fmt.Sprintf("file%d", i)}
	}
	return jobs
}

func TestRunReportsInOrder(t *testing.T) {
	tests := []struct {
		name      string
		jobs      int
		numWorker int
	}{
		{"no jobs", 0, 4},
		{"single worker", 20, 1},
		{"many workers", 100, 8},
		{"default workers", 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			process := func(ctx context.Context, job Job) Result {
				time.Sleep(time.Duration(rand.IntN(200)) * time.Microsecond)
				r := Result{InSize: int64(job.Index)}
				if job.Index%7 == 3 {
					r.Err = errors.New("bad input")
				}
				return r
			}

			var got []Result
			err := Run(context.Background(), makeJobs(tt.jobs), tt.numWorker, process, func(r Result) error {
				got = append(got, r)
				return nil
			})
			require.NoError(t, err)
			require.Len(t, got, tt.jobs)
			for i, r := range got {
				assert.Equal(t, i, r.Job.Index)
				assert.Equal(t, fmt.Sprintf("file%d", i), r.Job.Input)
				assert.Equal(t, int64(i), r.InSize)
				assert.Equal(t, i%7 == 3, r.Err != nil)
			}
		})
	}
}

func TestRunReportError(t *testing.T) {
	process := func(ctx context.Context, job Job) Result { return Result{} }
	boom := errors.New("disk full")
	calls := 0
	err := Run(context.Background(), makeJobs(30), 4, process, func(r Result) error {
		calls++
		if r.Job.Index == 5 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, boom, stacktrace.RootCause(err))
	assert.Equal(t, 6, calls)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	process := func(ctx context.Context, job Job) Result {
		if job.Index == 2 {
			cancel()
		}
		return Result{}
	}
	err := Run(ctx, makeJobs(1000), 2, process, func(Result) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
