package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"chronoreel/internal/logging"
)

// ErrQueueFull is returned when a submission would exceed queue capacity.
var ErrQueueFull = errors.New("job queue full")

// ErrQueueClosed is returned for submissions after shutdown has begun.
var ErrQueueClosed = errors.New("job queue closed")

// Processor handles one queued job. Implementations report progress through
// the status store; the worker only sequences them.
type Processor interface {
	Process(ctx context.Context, descriptor Descriptor)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, descriptor Descriptor)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, descriptor Descriptor) { f(ctx, descriptor) }

// Queue is a bounded FIFO of job descriptors with a single consumer.
type Queue struct {
	ch     chan Descriptor
	mu     sync.Mutex
	closed bool
}

// NewQueue constructs a queue holding at most capacity pending jobs.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Descriptor, capacity)}
}

// Submit enqueues a descriptor without blocking. A full queue rejects the
// submission rather than stalling the caller.
func (q *Queue) Submit(descriptor Descriptor) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- descriptor:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting submissions and lets the worker drain what remains.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Worker drains a queue with one goroutine, preserving submission order.
type Worker struct {
	queue     *Queue
	processor Processor
	logger    *slog.Logger
	done      chan struct{}
}

// NewWorker constructs a worker for queue backed by processor.
func NewWorker(queue *Queue, processor Processor, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		queue:     queue,
		processor: processor,
		logger:    logger.With(logging.String(logging.FieldComponent, "worker")),
		done:      make(chan struct{}),
	}
}

// Start launches the consumer goroutine. The worker stops when ctx is
// cancelled or the queue is closed and drained.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		w.logger.Info("worker started")
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("worker stopping", logging.Error(ctx.Err()))
				return
			case descriptor, ok := <-w.queue.ch:
				if !ok {
					w.logger.Info("worker stopping", logging.String("cause", "queue closed"))
					return
				}
				w.processor.Process(ctx, descriptor)
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has exited.
func (w *Worker) Wait() {
	<-w.done
}
