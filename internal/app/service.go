// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the terminal dashboard.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/spdi/internal/adapters/mq/queue"
	"github.com/okian/spdi/internal/adapters/mq/worker"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
	"github.com/okian/spdi/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrCompute      = errors.New("spdi compute failed")
	ErrInvalidBatch = errors.New("invalid batch")
	ErrBackpressure = errors.New("evaluation queue full")
	ErrNotStarted   = errors.New("service not started")
)

// Service evaluates match inputs and serves trend history.
type Service struct {
	mu sync.RWMutex

	history history.Source
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount  int
	queueSize    int
	maxBatchSize int
	now          func() time.Time

	started bool

	evaluated atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistorySource sets the source of prior composite values.
func WithHistorySource(src history.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.history = src
		}
	}
}

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchSize caps the inputs accepted by EvaluateBatch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Without WithHistorySource it serves the default
// sample series.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    1024,
		maxBatchSize: 500,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		// Defaults are known valid.
		src, _ := history.NewStaticSource(history.DefaultPoints())
		s.history = src
	}
	return s
}

// Start launches the batch worker pool. The pool runs until Stop; cancelling
// ctx does not stop it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "spdi service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
	)
	return nil
}

// Stop shuts down the worker pool.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.queue.Close()
	s.pool.Stop()
	s.started = false
	s.logger.Info(context.Background(), "spdi service stopped")
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get().Named("service")
}

// Validate reports every violated rule for in.
func (s *Service) Validate(_ context.Context, in spdi.MatchInput) []spdi.ValidationError {
	errs := spdi.Validate(in)
	for _, e := range errs {
		metrics.RecordValidationFailure(string(e.Rule))
	}
	return errs
}

// Evaluate validates in and, when valid, computes the index, per-player
// contributions and the trend. Validation failures are returned inside the
// Evaluation, not as an error.
func (s *Service) Evaluate(ctx context.Context, in spdi.MatchInput) (model.Evaluation, error) {
	start := time.Now()
	ev := model.Evaluation{
		ID:        uuid.NewString(),
		Input:     in,
		CreatedAt: s.now().UTC(),
	}

	if errs := s.Validate(ctx, in); len(errs) > 0 {
		ev.Errors = errs
		s.rejected.Add(1)
		s.log().Debug(ctx, "input rejected",
			logger.String("id", ev.ID),
			logger.Strings("messages", ev.Messages()),
		)
		return ev, nil
	}

	res, err := spdi.Compute(in)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordComputeError()
		s.log().Error(ctx, "compute failed", logger.String("id", ev.ID), logger.Error(err))
		return model.Evaluation{}, fmt.Errorf("%w: %w", ErrCompute, err)
	}
	parts, err := spdi.Contributions(in)
	if err != nil {
		s.failed.Add(1)
		return model.Evaluation{}, fmt.Errorf("%w: %w", ErrCompute, err)
	}
	trend, err := history.Trend(ctx, s.history, res.CompositeIndex)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("load history: %w", err)
	}

	ev.Result = &res
	ev.Contributions = parts
	ev.Trend = trend
	s.evaluated.Add(1)

	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordEvaluation(res.RiskTier.String(), res.CompositeIndex, latencyMs)
	s.log().Debug(ctx, "input evaluated",
		logger.String("id", ev.ID),
		logger.String("tier", res.RiskTier.String()),
		logger.Float64("composite", res.CompositeIndex),
	)
	return ev, nil
}

// EvaluateBatch evaluates independent inputs on the worker pool and returns
// the evaluations in input order.
func (s *Service) EvaluateBatch(ctx context.Context, inputs []spdi.MatchInput) ([]model.Evaluation, error) {
	s.mu.RLock()
	started, q, pool := s.started, s.queue, s.pool
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	switch {
	case len(inputs) == 0:
		return nil, fmt.Errorf("%w: no inputs", ErrInvalidBatch)
	case len(inputs) > s.maxBatchSize:
		return nil, fmt.Errorf("%w: %d inputs exceeds limit %d", ErrInvalidBatch, len(inputs), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(inputs))

	reply := make(chan queue.Outcome, len(inputs))
	for i, in := range inputs {
		if !q.Enqueue(ctx, queue.Job{Seq: i, Input: in, Reply: reply}) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if q.IsClosed() {
				return nil, ErrNotStarted
			}
			s.log().Warn(ctx, "batch refused by queue", logger.Int("submitted", i), logger.Int("size", len(inputs)))
			return nil, ErrBackpressure
		}
	}

	out := make([]model.Evaluation, len(inputs))
	for range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-pool.Stopped():
			return nil, ErrNotStarted
		case o := <-reply:
			if o.Err != nil {
				return nil, o.Err
			}
			out[o.Seq] = o.Evaluation
		}
	}
	return out, nil
}

// History returns the prior composite series.
func (s *Service) History(ctx context.Context) ([]history.Point, error) {
	return s.history.Recent(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"maxBatchSize": s.maxBatchSize,
		"evaluated":    s.evaluated.Load(),
		"rejected":     s.rejected.Load(),
		"failed":       s.failed.Load(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
	}
	return stats
}
