package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/swarmlet/swarmlet/agent"
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/logging"
)

// Default executor limits.
const (
	DefaultMaxConcurrency = 5
	DefaultMaxRetries     = 3
)

// Options configures a ParallelExecutor.
type Options struct {
	// MaxConcurrency bounds the number of simultaneously in-flight task
	// executions within one batch call.
	MaxConcurrency int

	// FailFast aborts a batch on the first task failure. In-flight peers are
	// cancelled through the batch context.
	FailFast bool

	// MaxRetries caps re-enqueues per task in ExecuteWithRetry.
	MaxRetries int

	Logger logging.Logger
}

// ParallelExecutor dispatches batches of tasks to the registry's best
// matching agents with bounded concurrency.
type ParallelExecutor struct {
	registry       *agent.Registry
	maxConcurrency int64
	failFast       bool
	maxRetries     int
	logger         logging.Logger
}

// New creates a ParallelExecutor over the given registry.
func New(registry *agent.Registry, optFns ...func(o *Options)) *ParallelExecutor {
	opts := Options{
		MaxConcurrency: DefaultMaxConcurrency,
		MaxRetries:     DefaultMaxRetries,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &ParallelExecutor{
		registry:       registry,
		maxConcurrency: int64(opts.MaxConcurrency),
		failFast:       opts.FailFast,
		maxRetries:     opts.MaxRetries,
		logger:         opts.Logger,
	}
}

// ExecuteAll runs all tasks concurrently, at most MaxConcurrency in flight.
// Returned results carry no ordering guarantee relative to the input.
//
// Failure policy: a task whose routing or protocol fails is logged and
// dropped from the returned slice unless FailFast is set, in which case the
// first failure cancels in-flight peers and aborts the whole batch with that
// error. Results with Success=false (model errors, iteration caps) are not
// batch failures; they are returned like any other result.
func (e *ParallelExecutor) ExecuteAll(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	if e.failFast {
		return e.executeAllFailFast(ctx, tasks)
	}

	sem := semaphore.NewWeighted(e.maxConcurrency)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []core.Result
	)

	for _, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // caller cancelled while waiting for admission
		}
		wg.Add(1)
		go func(t core.Task) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := e.registry.ExecuteWithBestAgent(ctx, t)
			if err != nil {
				e.logger.Warn("executor.task.failed", "task", t.ID, "error", err.Error())
				return
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(task)
	}

	wg.Wait()
	return results, nil
}

// executeAllFailFast runs the batch inside an errgroup whose context is
// cancelled on the first failure, so waiting admissions and in-flight model
// calls abort instead of leaking.
func (e *ParallelExecutor) executeAllFailFast(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(e.maxConcurrency)

	var (
		mu      sync.Mutex
		results []core.Result
	)

	for _, task := range tasks {
		if err := sem.Acquire(gctx, 1); err != nil {
			break // a peer already failed (or the caller cancelled)
		}
		t := task
		g.Go(func() error {
			defer sem.Release(1)

			res, err := e.registry.ExecuteWithBestAgent(gctx, t)
			if err != nil {
				e.logger.Warn("executor.task.failed", "task", t.ID, "error", err.Error())
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExecuteOrdered runs tasks with the same admission gate but reserves one
// output slot per input index. Failed tasks leave their slot empty; the
// returned slice contains the surviving results compacted in input order, so
// a position in the output no longer maps 1:1 to an input index once any
// task has failed.
func (e *ParallelExecutor) ExecuteOrdered(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	sem := semaphore.NewWeighted(e.maxConcurrency)
	slots := make([]*core.Result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(idx int, t core.Task) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := e.registry.ExecuteWithBestAgent(ctx, t)
			if err != nil {
				e.logger.Warn("executor.task.failed", "task", t.ID, "index", idx, "error", err.Error())
				return
			}
			slots[idx] = &res
		}(i, task)
	}
	wg.Wait()

	results := make([]core.Result, 0, len(tasks))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results, nil
}

// ExecuteWithRetry processes tasks one at a time through a FIFO queue,
// re-enqueueing failed attempts (routing errors, empty outcomes or
// unsuccessful results) up to MaxRetries times with no backoff. The final
// attempt's result is kept even when unsuccessful; tasks whose every attempt
// produced no result at all are dropped after logging.
func (e *ParallelExecutor) ExecuteWithRetry(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	type attempt struct {
		task  core.Task
		tries int
	}

	queue := make([]attempt, 0, len(tasks))
	for _, t := range tasks {
		queue = append(queue, attempt{task: t})
	}

	var results []core.Result
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		batch, err := e.ExecuteAll(ctx, []core.Task{item.task})

		var res *core.Result
		if err == nil && len(batch) > 0 {
			res = &batch[0]
		}
		failed := err != nil || res == nil || !res.Success

		if failed && item.tries < e.maxRetries {
			e.logger.Info("executor.task.retry", "task", item.task.ID, "attempt", item.tries+1)
			queue = append(queue, attempt{task: item.task, tries: item.tries + 1})
			continue
		}

		if res != nil {
			results = append(results, *res)
		} else {
			e.logger.Warn("executor.task.dropped", "task", item.task.ID, "attempts", item.tries+1)
		}
	}
	return results, nil
}
