package qlab

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Pool is a fixed set of workers that runs simulation jobs. The simulation core
is pure, so jobs never share state; the pool only spreads independent runs
(temperature sweeps, shot batches) over goroutines and hands back results.
*/
type Pool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	workers chan chan Job
	jobs    chan Job
	space   *ResultSpace
	metrics *Metrics
	config  *Config
}

// NewPool starts config.MinWorkers workers bound to ctx.
func NewPool(ctx context.Context, config *Config) *Pool {
	if config == nil {
		config = NewConfig()
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Job, config.MaxWorkers*10),
		workers: make(chan chan Job, config.MaxWorkers),
		space:   NewResultSpace(),
		metrics: NewMetrics(),
		config:  config,
	}

	for i := 0; i < config.MinWorkers; i++ {
		p.startWorker()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.manage()
	}()

	errnie.Info("NewPool - started %d workers", config.MinWorkers)
	return p
}

// manage hands queued jobs to idle workers.
func (p *Pool) manage() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			p.metrics.recordQueueSize(p.jobs)

			select {
			case <-p.ctx.Done():
				return
			case workerChan := <-p.workers:
				select {
				case workerChan <- job:
				case <-p.ctx.Done():
					return
				}
			case <-time.After(p.schedulingTimeout()):
				errnie.Info("Pool - no available workers for job %s", job.ID)
				p.metrics.recordSchedulingFailure()
				p.space.Store(job.ID, nil, fmt.Errorf("no available workers for job %s", job.ID), job.TTL)
			}
		}
	}
}

/*
Schedule queues fn under id and returns the channel its result arrives on.
IDs must be unique among jobs in flight.
*/
func (p *Pool) Schedule(id string, fn func() (any, error), opts ...JobOption) chan JobResult {
	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
	}

	for _, opt := range opts {
		opt(&job)
	}

	if err := p.ctx.Err(); err != nil {
		return failed(fmt.Errorf("%w: %v", ErrPoolClosed, err))
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.schedulingTimeout())
	defer cancel()

	result := p.space.Await(id)

	select {
	case p.jobs <- job:
		p.metrics.recordQueueSize(p.jobs)
		return result
	case <-ctx.Done():
		p.metrics.recordSchedulingFailure()
		err := fmt.Errorf("job scheduling timeout: %w", ctx.Err())
		p.space.Store(id, nil, err, job.TTL)
		return result
	}
}

func failed(err error) chan JobResult {
	ch := make(chan JobResult, 1)
	ch <- JobResult{Error: err, CreatedAt: time.Now()}
	close(ch)
	return ch
}

// Metrics exposes the pool's counters.
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

func (p *Pool) startWorker() {
	worker := &Worker{
		pool: p,
		jobs: make(chan Job),
	}

	p.metrics.mu.Lock()
	p.metrics.WorkerCount++
	p.metrics.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		worker.run(p.ctx)
	}()
}

func (p *Pool) schedulingTimeout() time.Duration {
	if p.config != nil && p.config.SchedulingTimeout > 0 {
		return p.config.SchedulingTimeout
	}
	return 5 * time.Second
}

// Close stops the workers and waits for them to exit. Jobs still queued are
// abandoned; their awaiters are not notified.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.cancel()
	p.wg.Wait()
	p.space.Close()

	errnie.Info("Pool - closed")
}
