// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
)

// A very small worker pool that bounds concurrent pipeline work across
// all in-flight batches.

type Task func(ctx context.Context) error

type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	ctx  context.Context
	n    int
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{jobs: make(chan Task, workers*4), quit: make(chan struct{}), n: workers}
}

func (p *Pool) Start(ctx context.Context) {
	p.ctx = ctx
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						log.Printf("worker %d task error: %v", id, err)
					}
				}
			}
		}(i)
	}
}

// Stop waits for the workers to exit and then runs anything still
// queued, so callers blocked on task completion are always released.
// Drained tasks see the start context, canceled or not.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()

	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case task := <-p.jobs:
			if task != nil {
				if err := task(ctx); err != nil {
					log.Printf("drained task error: %v", err)
				}
			}
		default:
			return
		}
	}
}

// Submit blocks until a worker slot accepts the task or ctx is done.
// Batch ordering does not depend on scheduling order; callers track
// completion themselves.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
