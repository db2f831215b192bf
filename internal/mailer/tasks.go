package mailer

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// TaskPool runs fire-and-forget side effects (audit appends, oversight
// notifications) off the delivery path. Submission never blocks the caller;
// at most `workers` tasks execute concurrently. Every task carries its own
// error boundary: panics are recovered and logged, and nothing is ever
// joined by the submitting goroutine.
type TaskPool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger types.Logger
}

// NewTaskPool creates a pool bounded to the given number of concurrent
// workers.
func NewTaskPool(workers int, logger types.Logger) *TaskPool {
	if workers <= 0 {
		workers = 1
	}
	return &TaskPool{
		sem:    semaphore.NewWeighted(int64(workers)),
		logger: logger,
	}
}

// Submit schedules fn for background execution and returns immediately.
// The concurrency bound is enforced inside the spawned goroutine so the
// submitter never waits for a free worker.
func (p *TaskPool) Submit(name string, fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("panic in background task recovered",
					"task", name,
					"panic", r,
				)
			}
		}()

		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		fn()
	}()
}

// Drain waits for all submitted tasks to finish, up to the context deadline.
// Used during shutdown so in-flight audit writes are not lost.
func (p *TaskPool) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn("background task pool drain timed out")
		return ctx.Err()
	}
}
