package generate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// BatchFunc executes one independently committable batch of work.
type BatchFunc func(ctx context.Context) error

// BatchJob is one unit submitted to the pool. Seed is the derived
// random seed for the batch so results do not depend on worker
// interleaving.
type BatchJob struct {
	ID   int
	Kind string
	Seed int64
	Run  BatchFunc
}

// BatchResult records the outcome of one job after all retries.
type BatchResult struct {
	Job      BatchJob
	Attempts int
	Err      error
}

// BatchPool runs batch jobs across a fixed set of workers. A failed
// batch is retried a bounded number of times with increasing backoff;
// after the retries are exhausted the failure is recorded and the pool
// moves on to the next job.
type BatchPool struct {
	workers    int
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger

	jobs   chan BatchJob
	wg     sync.WaitGroup
	mu     sync.Mutex
	failed []BatchResult

	executed atomic.Int64
	retried  atomic.Int64
}

// NewBatchPool creates a pool. Workers must be at least 1.
func NewBatchPool(workers, maxRetries int, backoff time.Duration, log *zap.Logger) *BatchPool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchPool{
		workers:    workers,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
		jobs:       make(chan BatchJob, workers*2),
	}
}

// Start launches the workers. Submit blocks once the queue is full,
// which bounds how far the producer can run ahead of the writers.
func (p *BatchPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Submit queues a job. It returns false when the context is cancelled
// before the job could be queued.
func (p *BatchPool) Submit(ctx context.Context, job BatchJob) bool {
	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Wait closes the queue, waits for the workers to drain it, and
// returns the jobs that failed after exhausting their retries.
func (p *BatchPool) Wait() []BatchResult {
	close(p.jobs)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Executed returns the number of jobs that completed successfully.
func (p *BatchPool) Executed() int64 {
	return p.executed.Load()
}

func (p *BatchPool) run(ctx context.Context, worker int) {
	defer p.wg.Done()

	for job := range p.jobs {
		if ctx.Err() != nil {
			p.record(BatchResult{Job: job, Err: ctx.Err()})
			continue
		}
		p.execute(ctx, worker, job)
	}
}

func (p *BatchPool) execute(ctx context.Context, worker int, job BatchJob) {
	var err error
	for attempt := 1; attempt <= p.maxRetries+1; attempt++ {
		err = job.Run(ctx)
		if err == nil {
			p.executed.Add(1)
			if attempt > 1 {
				p.log.Info("batch recovered after retry",
					zap.String("kind", job.Kind),
					zap.Int("batch", job.ID),
					zap.Int("attempt", attempt))
			}
			return
		}
		if ctx.Err() != nil {
			break
		}
		if attempt <= p.maxRetries {
			p.retried.Add(1)
			p.log.Warn("batch failed, retrying",
				zap.String("kind", job.Kind),
				zap.Int("batch", job.ID),
				zap.Int("attempt", attempt),
				zap.Int("worker", worker),
				zap.Error(err))
			if !sleep(ctx, p.backoff*time.Duration(attempt)) {
				break
			}
		}
	}

	p.log.Error("batch failed permanently",
		zap.String("kind", job.Kind),
		zap.Int("batch", job.ID),
		zap.Error(err))
	p.record(BatchResult{Job: job, Attempts: p.maxRetries + 1, Err: err})
}

func (p *BatchPool) record(res BatchResult) {
	p.mu.Lock()
	p.failed = append(p.failed, res)
	p.mu.Unlock()
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
