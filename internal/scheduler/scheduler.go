package scheduler

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
)

// Job is a single unit of work, usually one document to render.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Summary reports the outcome of a pool run.
type Summary struct {
	// Done counts the jobs that completed without error.
	Done int
	// Failed lists the names of jobs that returned an error or were
	// skipped after cancellation, sorted alphabetically.
	Failed []string
}

// OK reports whether every job completed successfully.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}

// Run executes all jobs on a pool of workers and blocks until the queue is
// drained. A workers value below one selects one worker per CPU. Once the
// context is cancelled, jobs that have not started yet are reported as
// failed without running.
func Run(ctx context.Context, workers int, jobs []Job) Summary {
	if len(jobs) == 0 {
		return Summary{}
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting worker pool.", "workers", workers, "jobs", len(jobs))

	queue := make(chan Job)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var summary Summary

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLogger := logger.With("workerID", workerID)
			workerLogger.Debug("Worker started.")

			for job := range queue {
				jobLogger := workerLogger.With("job", job.Name)

				if ctx.Err() != nil {
					jobLogger.Debug("Skipping job after cancellation.")
					mu.Lock()
					summary.Failed = append(summary.Failed, job.Name)
					mu.Unlock()
					continue
				}

				jobLogger.Debug("Worker picked up job.")
				if err := job.Run(ctx); err != nil {
					jobLogger.Error("Job failed.", "error", err)
					mu.Lock()
					summary.Failed = append(summary.Failed, job.Name)
					mu.Unlock()
					continue
				}

				jobLogger.Debug("Job finished.")
				mu.Lock()
				summary.Done++
				mu.Unlock()
			}

			workerLogger.Debug("Worker finished.")
		}(i)
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()

	sort.Strings(summary.Failed)
	logger.Debug("Worker pool drained.", "done", summary.Done, "failed", len(summary.Failed))
	return summary
}
