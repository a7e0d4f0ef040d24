package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work bound to a fixed output slot
type Job interface {
	Slot() int
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool executes jobs concurrently and returns results ordered by slot,
// so a parallel run yields the same output slice as a sequential one.
type Pool struct {
	workers int
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the configured concurrency
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes all jobs and returns one result per slot. Slots must be
// unique and within [0, len(jobs)); each worker writes only its job's
// slot, so no locking is needed on the result slice. On cancellation the
// remaining slots stay nil and the context error is returned.
func (p *Pool) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	results := make([]Result, len(jobs))
	queue := make(chan Job)

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if ctx.Err() != nil {
					continue
				}
				results[job.Slot()] = job.Execute(ctx)
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()

	return results, ctx.Err()
}
