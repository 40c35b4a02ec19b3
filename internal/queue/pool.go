package queue

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"auralis.core/internal/logger"
	"auralis.core/internal/metrics"
)

const (
	defaultRetryBackoff = 100 * time.Millisecond
	defaultShutdownWait = 5 * time.Second
)

// Stats reports the pool's lifetime counters.
type Stats struct {
	Completed int64
	Failed    int64
	Retried   int64
}

// ProgressFunc is invoked after every claimed job's terminal attempt.
type ProgressFunc func(trackID string, status JobStatus)

// Pool is the fingerprint-extraction worker pool. Workers first drain any
// locally Enqueue-d high-priority jobs, then fall back to claiming
// unfingerprinted tracks directly from the repository — satisfying both
// the priority-queue structure and the pull/claim protocol the component
// specifies.
type Pool struct {
	repo      Repository
	extractor Extractor
	workers   int
	sem       chan struct{}

	mu    sync.Mutex
	queue *priorityQueue

	stop    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup

	onProgress ProgressFunc

	completed atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
}

// Option configures a Pool under construction.
type Option func(*Pool)

// WithWorkers overrides the worker count (default 4).
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithProgress registers a callback invoked after each job's terminal
// attempt (completed, or failed with retries exhausted).
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pool) { p.onProgress = fn }
}

// New builds a Pool. Default worker count is 4, per §4.7's documented
// default range and SPEC_FULL.md §10.3's min(4, NumCPU) resolution,
// applied by the caller via WithWorkers.
func New(repo Repository, extractor Extractor, opts ...Option) *Pool {
	p := &Pool{
		repo:      repo,
		extractor: extractor,
		workers:   4,
		queue:     newPriorityQueue(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sem = make(chan struct{}, p.workers)
	return p
}

// Enqueue adds a job directly to the local priority queue, ahead of
// repository-claimed work at the same or lower priority.
func (p *Pool) Enqueue(job *ExtractionJob) {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	p.mu.Lock()
	heap.Push(p.queue, job)
	p.mu.Unlock()
}

// Start launches the worker daemons. Each worker runs until Stop is
// called or the repository reports no further work.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop signals workers to exit and waits up to timeout for them to join.
// Returns false (without crashing) if workers did not finish in time.
func (p *Pool) Stop(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = defaultShutdownWait
	}
	p.stopped.Store(true)
	close(p.stop)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		logger.WarnWithFields("worker pool shutdown timed out", zap.Duration("timeout", timeout))
		return false
	}
}

// Stats returns a point-in-time snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Retried:   p.retried.Load(),
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		default:
		}

		job := p.nextJob(ctx)
		if job == nil {
			return
		}

		metrics.Get().QueueWorkersBusy.WithLabelValues().Inc()
		p.process(ctx, id, job)
		metrics.Get().QueueWorkersBusy.WithLabelValues().Dec()
	}
}

// nextJob pops a locally-enqueued job if one exists, otherwise asks the
// repository to atomically claim the next unfingerprinted track.
func (p *Pool) nextJob(ctx context.Context) *ExtractionJob {
	p.mu.Lock()
	if p.queue.Len() > 0 {
		job := heap.Pop(p.queue).(*ExtractionJob)
		p.mu.Unlock()
		return job
	}
	p.mu.Unlock()

	job, err := p.repo.ClaimNextUnfingerprintedTrack(ctx)
	if err != nil {
		logger.WarnWithFields("claim next track failed", zap.Error(err))
		return nil
	}
	return job
}

func (p *Pool) process(ctx context.Context, workerID int, job *ExtractionJob) {
	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-p.stop:
		return
	}

	fields := []zap.Field{logger.WithTrackID(job.TrackID), logger.WithWorkerID(workerID)}

	err := p.extractor.ExtractAndStore(ctx, job)
	if err == nil {
		p.completed.Add(1)
		metrics.Get().QueueJobsCompleted.WithLabelValues().Inc()
		p.report(job.TrackID, StatusCompleted)
		logger.InfoWithFields("extraction completed", fields...)
		return
	}

	logger.WarnWithFields("extraction attempt failed", append(fields, zap.Error(err))...)

	if job.RetryCount < job.MaxRetries {
		job.RetryCount++
		p.retried.Add(1)
		metrics.Get().QueueJobRetriesTotal.WithLabelValues().Inc()
		time.Sleep(defaultRetryBackoff)
		p.Enqueue(job)
		return
	}

	p.failed.Add(1)
	metrics.Get().QueueJobsFailed.WithLabelValues().Inc()
	if releaseErr := p.repo.ReleaseClaim(ctx, job.TrackID); releaseErr != nil {
		logger.WarnWithFields("release claim failed", append(fields, zap.Error(releaseErr))...)
	}
	p.report(job.TrackID, StatusFailed)
}

// report invokes the caller's ProgressFunc, if any. Per §4.7, a panicking
// callback must never take down the worker goroutine.
func (p *Pool) report(trackID string, status JobStatus) {
	if p.onProgress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.WarnWithFields("progress callback panicked",
				logger.WithTrackID(trackID), zap.Any("panic", r))
		}
	}()
	p.onProgress(trackID, status)
}
