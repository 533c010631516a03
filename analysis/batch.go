package analysis

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
)

// A Batch runs jobs on a pool of workers. Each job gets its own run, so jobs
// never share state.
type Batch struct {
	workers int
	memo    *Memo
	logger  *slog.Logger
}

// Run performs all the jobs and returns their results in job order. It stops
// at the first job that fails or when ctx is done.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(jobs))
	indices := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < b.numWorkers(len(jobs)); w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range indices {
				res, err := b.runJob(jobs[i])
				if err != nil {
					fail(err)
					continue
				}

				results[i] = res
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}

	close(indices)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (b *Batch) numWorkers(numJobs int) int {
	n := b.workers
	if n <= 0 {
		n = runtime.NumCPU()
	}

	if n > numJobs {
		n = numJobs
	}

	return n
}

func (b *Batch) runJob(j Job) (Result, error) {
	if b.memo != nil {
		if s, ok := b.memo.Lookup(j); ok {
			return Result{Job: j, Stats: s, Cached: true}, nil
		}
	}

	s, err := j.run()
	if err != nil {
		return Result{}, err
	}

	b.logger.Debug("run finished",
		"policy", j.Policy, "frames", j.Capacity, "faults", s.Faults)

	if b.memo != nil {
		b.memo.Store(j, s)
	}

	return Result{Job: j, Stats: s}, nil
}
