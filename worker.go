package qlab

import (
	"context"
	"fmt"

	"github.com/theapemachine/errnie"
)

// Worker processes jobs
type Worker struct {
	pool *Pool
	jobs chan Job
}

/*
run offers the worker's job channel to the pool, executes whatever job
arrives on it and stores the result, until the context ends.
*/
func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.pool.workers <- w.jobs:
		}

		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			result, err := w.processJob(job)
			w.pool.space.Store(job.ID, result, err, job.TTL)
		}
	}
}

func (w *Worker) processJob(job Job) (any, error) {
	result, err := safeCall(job.Fn)
	if err != nil {
		errnie.Info("Worker - job %s failed: %v", job.ID, err)
	}

	w.pool.metrics.recordJobExecution(job.StartTime, err == nil)
	return result, err
}

// safeCall turns a panicking job into an error so the worker survives it.
func safeCall(fn func() (any, error)) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	if fn == nil {
		return nil, fmt.Errorf("%w: job without a function", ErrInvalidInput)
	}

	return fn()
}
