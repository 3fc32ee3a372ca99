// Package worker runs a fixed pool of goroutines that evaluate queued jobs.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/spdi/internal/adapters/mq/queue"
	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
	"github.com/okian/spdi/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
)

// Evaluator evaluates one input.
type Evaluator interface {
	Evaluate(ctx context.Context, in spdi.MatchInput) (model.Evaluation, error)
}

// Source is where workers receive jobs from.
type Source interface {
	Dequeue() <-chan queue.Job
}

// Worker evaluates jobs until its source closes, ctx ends or the pool stops.
type Worker struct {
	name      string
	source    Source
	evaluator Evaluator
	shutdown  <-chan struct{}
	done      chan struct{}
	logger    logger.Logger
}

// NewWorker creates a worker. A nil shutdown channel never fires.
func NewWorker(source Source, evaluator Evaluator, shutdown <-chan struct{}, opts ...Option) *Worker {
	w := &Worker{
		name:      "worker",
		source:    source,
		evaluator: evaluator,
		shutdown:  shutdown,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Run processes jobs until stopped.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			metrics.UpdateQueueSize(len(jobs))
			w.process(ctx, j)
		}
	}
}

func (w *Worker) process(ctx context.Context, j queue.Job) {
	start := time.Now()
	metrics.WorkerStarted()
	ev, err := w.evaluator.Evaluate(ctx, j.Input)
	metrics.WorkerFinished(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		metrics.RecordErrorByComponent("worker", "evaluate")
		w.logger.Error(ctx, "evaluation failed", logger.Int("seq", j.Seq), logger.Error(err))
		err = fmt.Errorf("job %d: %w", j.Seq, err)
	}

	select {
	case j.Reply <- queue.Outcome{Seq: j.Seq, Evaluation: ev, Err: err}:
	case <-ctx.Done():
		w.logger.Warn(ctx, "reply dropped", logger.Int("seq", j.Seq), logger.Error(ctx.Err()))
	}
}

// Pool manages a fixed set of workers reading from one source.
type Pool struct {
	workers  []*Worker
	shutdown chan struct{}
	stopOnce sync.Once
	logger   logger.Logger
}

// NewPool creates workerCount workers. A non-positive count uses NumCPU.
func NewPool(workerCount int, source Source, evaluator Evaluator) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers:  make([]*Worker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(source, evaluator, p.shutdown, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Stopped is closed once Stop is called.
func (p *Pool) Stopped() <-chan struct{} { return p.shutdown }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop signals every worker and waits for each, up to a per-worker timeout.
// It is safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
		for i, w := range p.workers {
			select {
			case <-w.done:
			case <-time.After(workerShutdownTimeout):
				p.logger.Warn(context.Background(), "worker shutdown timed out", logger.Int("worker_id", i))
			}
		}
	})
}
