// Package worker defines the worker pool that drains registration events and
// runs the retroactive reconcile pass for each newly created athlete.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/pkg/logger"
	"github.com/ratmirov/tatami/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.RegistrationEvent

// Reconciler runs one retroactive matching pass for an athlete and returns
// the rating points awarded.
type Reconciler interface {
	Reconcile(ctx context.Context, athleteID uuid.UUID) (int, error)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes registration events until stopped.
type Worker struct {
	queue      Queue
	reconciler Reconciler
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, reconciler Reconciler, opts ...Option) *Worker {
	w := &Worker{
		queue:      queue,
		reconciler: reconciler,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "registration event failed", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent runs the reconcile pass for one registration.
func (w *Worker) processEvent(ctx context.Context, event Event) error {
	start := time.Now()
	points, err := w.reconciler.Reconcile(ctx, event.AthleteID)
	metrics.RecordReconcileDuration(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordReconcileError()
		return fmt.Errorf("reconcile for event %s: %w", event.EventID, err)
	}

	metrics.RecordReconcilePass()
	if points > 0 {
		w.logger.Info(ctx, "historical points awarded",
			logger.String("athleteID", event.AthleteID.String()),
			logger.Int("points", points),
		)
	}
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a worker pool.
func NewPool(workerCount int, queue Queue, reconciler Reconciler) *Pool {
	if workerCount < 1 {
		workerCount = max(defaultWorkerCount, runtime.NumCPU())
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(queue, reconciler, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers, waiting up to the shutdown timeout for
// each to drain.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop in time", logger.String("worker", w.name))
		}
	}
}
