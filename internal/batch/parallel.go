package batch

import (
	"context"
	"runtime"
	"sync"
)

type fileJob struct {
	index int
	path  string
}

type fileOutcome struct {
	index  int
	result *FileResult
}

// processFilesParallel runs process over paths on a worker pool and returns
// the results in input order. When stopOnError is set the first failure
// cancels the remaining work.
func processFilesParallel(
	ctx context.Context,
	paths []string,
	workers int,
	stopOnError bool,
	progress ProgressCallback,
	process func(context.Context, string) *FileResult,
) []*FileResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(paths))
	if progress == nil {
		progress = NoOpProgressCallback{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress.OnStart(len(paths))
	defer progress.OnComplete()

	jobs := make(chan fileJob)
	outcomes := make(chan fileOutcome, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				outcomes <- fileOutcome{index: job.index, result: process(ctx, job.path)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- fileJob{index: i, path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]*FileResult, len(paths))
	done := 0
	for o := range outcomes {
		results[o.index] = o.result
		done++
		if o.result.Err != nil {
			progress.OnError(done, o.result.Err)
			if stopOnError {
				cancel()
			}
		}
		progress.OnProgress(done, len(paths))
	}

	// Files never dispatched because of cancellation.
	for i, r := range results {
		if r == nil {
			results[i] = &FileResult{Path: paths[i], Err: context.Cause(ctx), Skipped: true}
		}
	}
	return results
}
