package job

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull means the submission queue has no free slot. The caller
// should surface this as a back-pressure condition, not retry blindly.
var ErrQueueFull = errors.New("job queue full")

// Runner defaults.
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 16
)

// JobFunc executes one job. Status reporting happens inside the
// function through the Registry; the Runner only moves ids around.
type JobFunc func(ctx context.Context, j Job)

// Runner feeds queued jobs to a fixed pool of worker goroutines.
type Runner struct {
	registry *Registry
	run      JobFunc
	queue    chan string

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	workers   int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithQueueSize sets the submission queue capacity.
func WithQueueSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.queue = make(chan string, n)
		}
	}
}

// NewRunner creates a Runner executing fn for each queued job.
func NewRunner(reg *Registry, fn JobFunc, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: reg,
		run:      fn,
		queue:    make(chan string, DefaultQueueSize),
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the worker pool. Workers exit when the queue is
// drained after Stop, or when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		for range r.workers {
			r.wg.Add(1)
			go r.worker(ctx)
		}
	})
}

// Enqueue submits a job id for execution without blocking.
func (r *Runner) Enqueue(id string) error {
	select {
	case r.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-r.queue:
			if !ok {
				return
			}
			j, err := r.registry.Get(id)
			if err != nil {
				continue // Job vanished; nothing to run.
			}
			r.run(ctx, j)
		}
	}
}
