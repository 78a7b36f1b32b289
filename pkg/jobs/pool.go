package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job represents one unit of work inside a batch.
type Job struct {
	ID       string
	Type     string
	Index    int
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// PoolConfig configures worker pool behaviour.
type PoolConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Pool runs a fixed batch of jobs on a bounded set of goroutines and waits for all of them.
type Pool struct {
	name       string
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewPool builds a named pool. MaxRetries of zero disables retries.
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{
		name:       name,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

// Run dispatches every job and blocks until all finished or ctx ended. It returns the context
// error when cancelled, otherwise the joined errors of jobs that exhausted their retries.
func (p *Pool) Run(ctx context.Context, batch []Job, handler Handler) error {
	if len(batch) == 0 {
		return nil
	}
	workers := p.workers
	if workers > len(batch) {
		workers = len(batch)
	}

	queue := make(chan Job)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []error
	)

	p.logger.Sugar().Debugw("pool started", "pool", p.name, "workers", workers, "jobs", len(batch))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range queue {
				if err := p.process(ctx, workerID, job, handler); err != nil {
					mu.Lock()
					failed = append(failed, err)
					mu.Unlock()
				}
			}
		}(i + 1)
	}

dispatch:
	for _, job := range batch {
		if job.Enqueued.IsZero() {
			job.Enqueued = time.Now().UTC()
		}
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- job:
		}
	}
	close(queue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pool %s stopped: %w", p.name, err)
	}
	p.logger.Sugar().Debugw("pool finished", "pool", p.name, "failed", len(failed))
	return errors.Join(failed...)
}

func (p *Pool) process(ctx context.Context, workerID int, job Job, handler Handler) error {
	for {
		err := handler(ctx, job)
		if err == nil {
			return nil
		}
		job.Attempt++
		if job.Attempt > p.maxRetries {
			p.logger.Sugar().Errorw("job exceeded retries", "pool", p.name, "worker", workerID, "job_id", job.ID, "type", job.Type, "error", err)
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
		p.logger.Sugar().Warnw("job failed, retrying", "pool", p.name, "worker", workerID, "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", err)

		timer := time.NewTimer(p.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("job %s: %w", job.ID, ctx.Err())
		case <-timer.C:
		}
	}
}
