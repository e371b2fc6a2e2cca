// Package worker runs per-candidate pipeline units in the background.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/logger"
)

var ErrShuttingDown = errors.New("dispatcher is shutting down")

// Dispatcher starts one unit per candidate and bounds how many run at once.
// A started unit is never cancelled; Shutdown only waits for it.
type Dispatcher struct {
	processor domain.CandidateProcessor
	sem       *semaphore.Weighted
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(processor domain.CandidateProcessor, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		processor: processor,
		sem:       semaphore.NewWeighted(int64(concurrency)),
	}
}

// Dispatch queues the pipeline for candidateID and returns immediately.
// The unit outlives ctx's cancellation but keeps its values.
func (d *Dispatcher) Dispatch(ctx context.Context, candidateID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrShuttingDown
	}

	d.wg.Add(1)
	go d.run(context.WithoutCancel(ctx), candidateID)
	return nil
}

func (d *Dispatcher) run(ctx context.Context, candidateID int64) {
	defer d.wg.Done()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		logger.Log.Error("Pipeline unit not started", "candidate_id", candidateID, "error", err)
		return
	}
	defer d.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Pipeline unit panicked",
				"candidate_id", candidateID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	d.processor.Process(ctx, candidateID)
}

// Shutdown stops accepting work and waits for running units until ctx ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
