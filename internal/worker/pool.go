package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/baharkarakas/unitrack/internal/metrics"
)

var (
	ErrStopped   = errors.New("worker pool stopped")
	ErrQueueFull = errors.New("worker queue full")
)

const defaultQueueSize = 1024

type task func(ctx context.Context)

type Option func(*Pool)

// JobTimeout bounds each job's context; d <= 0 leaves jobs without a deadline.
func JobTimeout(d time.Duration) Option {
	return func(p *Pool) { p.timeout = d }
}

func QueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// Pool runs submitted jobs on a fixed number of goroutines.
type Pool struct {
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	jobs    chan task
	size    int
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewPool(n int, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{size: defaultQueueSize, ctx: ctx, cancel: cancel}
	for _, o := range opts {
		o(p)
	}
	p.jobs = make(chan task, p.size)
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.WorkerQueueDepth.Dec()
		p.exec(job)
	}
}

func (p *Pool) exec(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("worker job panicked", "panic", rec)
		}
	}()
	ctx := p.ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	job(ctx)
}

// Submit enqueues f without blocking; a full queue returns ErrQueueFull.
func (p *Pool) Submit(f func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	metrics.WorkerQueueDepth.Inc()
	select {
	case p.jobs <- f:
		return nil
	default:
		metrics.WorkerQueueDepth.Dec()
		return ErrQueueFull
	}
}

// Stop drains queued jobs and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
