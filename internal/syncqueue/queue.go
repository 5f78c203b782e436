package syncqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
)

// Kind names the resource class a task projects.
type Kind string

const (
	KindItem     Kind = "rental_item"
	KindBlackout Kind = "blackout_window"
)

// Handler projects one resource. A non-nil error is logged; the resource's
// sync columns already carry the failure, so the periodic pending sweep
// retries it.
type Handler func(ctx context.Context, id uuid.UUID) error

type task struct {
	kind Kind
	id   uuid.UUID
}

// Queue is a bounded in-process projection queue. Enqueue never blocks the
// caller: when the buffer is full the task is dropped and picked up by the
// next pending sweep instead.
type Queue struct {
	tasks    chan task
	handlers map[Kind]Handler
	workers  int
	logger   *logger.Logger
	metrics  *metrics.SyncMetrics

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	done      chan struct{}
}

// Options configures the queue.
type Options struct {
	Workers  int
	Capacity int
	Handlers map[Kind]Handler
	Logger   *logger.Logger
	Metrics  *metrics.SyncMetrics
}

// New builds a stopped queue. Call Start to launch the workers.
func New(opts Options) (*Queue, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(opts.Handlers) == 0 {
		return nil, fmt.Errorf("at least one handler required")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	capacity := opts.Capacity
	if capacity < 1 {
		capacity = 1
	}
	handlers := make(map[Kind]Handler, len(opts.Handlers))
	for kind, handler := range opts.Handlers {
		if handler == nil {
			return nil, fmt.Errorf("nil handler for %s", kind)
		}
		handlers[kind] = handler
	}
	return &Queue{
		tasks:    make(chan task, capacity),
		handlers: handlers,
		workers:  workers,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the worker pool. The context bounds each task's work, not
// the pool's lifetime; use Stop to shut down.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.worker(ctx)
		}
	})
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case t := <-q.tasks:
					q.run(ctx, t)
				default:
					return
				}
			}
		case t := <-q.tasks:
			q.run(ctx, t)
		}
	}
}

func (q *Queue) run(ctx context.Context, t task) {
	defer q.metrics.SetQueueDepth(len(q.tasks))

	handler, ok := q.handlers[t.kind]
	if !ok {
		q.logger.Warn(ctx, fmt.Sprintf("no handler for %s task", t.kind))
		return
	}
	taskCtx := q.logger.WithFields(ctx, map[string]any{
		"kind": string(t.kind),
		"id":   t.id.String(),
	})
	if err := handler(taskCtx, t.id); err != nil {
		q.logger.Error(taskCtx, "projection task failed", err)
	}
}

// Enqueue submits a task without blocking. It reports whether the task was
// accepted.
func (q *Queue) Enqueue(kind Kind, id uuid.UUID) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.tasks <- task{kind: kind, id: id}:
		q.metrics.SetQueueDepth(len(q.tasks))
		return true
	default:
		q.metrics.IncDropped()
		q.logger.Warn(context.Background(), fmt.Sprintf("sync queue full, dropping %s %s", kind, id))
		return false
	}
}

// EnqueueItemSync submits an inventory projection task.
func (q *Queue) EnqueueItemSync(itemID uuid.UUID) bool {
	return q.Enqueue(KindItem, itemID)
}

// EnqueueBlackoutSync submits a blackout projection task.
func (q *Queue) EnqueueBlackoutSync(windowID uuid.UUID) bool {
	return q.Enqueue(KindBlackout, windowID)
}

// Stop rejects new tasks, lets the workers drain the buffer, and waits up to
// the context deadline for them to finish.
func (q *Queue) Stop(ctx context.Context) error {
	q.stopOnce.Do(func() {
		close(q.done)
	})

	finished := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sync queue drain interrupted: %w", ctx.Err())
	}
}

// Depth reports the number of buffered tasks.
func (q *Queue) Depth() int {
	return len(q.tasks)
}

var _ interface {
	EnqueueItemSync(uuid.UUID) bool
	EnqueueBlackoutSync(uuid.UUID) bool
} = (*Queue)(nil)
