package processor

import (
	"context"
	"sync"
	"time"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"djp.chapter42.de/printerbridge/internal/logger"
	"djp.chapter42.de/printerbridge/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultDelay    = 500 * time.Millisecond
	DefaultCapacity = 100
)

// State of the drain loop.
type State int

const (
	StateIdle State = iota
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DispatchFunc sends one job. Its error is logged and the queue moves on.
type DispatchFunc func(ctx context.Context, job data.QueueJob) error

type Options struct {
	// Delay is the pause between the end of one dispatch and the start of the next.
	Delay    time.Duration
	Capacity int
	History  *History
}

// Queue is a bounded FIFO of print jobs drained by a single goroutine,
// so at most one dispatch is in flight.
type Queue struct {
	dispatch DispatchFunc
	delay    time.Duration
	capacity int
	history  *History

	mu       sync.Mutex
	pending  []data.QueueJob
	state    State
	lastDone time.Time

	wake      chan struct{}
	startOnce sync.Once
}

func NewQueue(dispatch DispatchFunc, opts Options) *Queue {
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.History == nil {
		opts.History = NewHistory(50)
	}
	return &Queue{
		dispatch: dispatch,
		delay:    opts.Delay,
		capacity: opts.Capacity,
		history:  opts.History,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the drain loop. Further calls are no-ops. The loop ends when ctx is done;
// a job in flight at that moment is allowed to finish.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		go q.run(ctx)
		q.signal()
	})
}

// Enqueue appends job at the tail and returns its 1-based position.
func (q *Queue) Enqueue(job data.QueueJob) (int, error) {
	q.mu.Lock()
	if len(q.pending) >= q.capacity {
		q.mu.Unlock()
		return 0, perrors.NewQueueFullError(q.capacity)
	}
	q.pending = append(q.pending, job)
	position := len(q.pending)
	metrics.QueueLength.Set(float64(position))
	q.mu.Unlock()

	q.history.Add(JobRecord{
		ID:         job.ID,
		Kind:       job.Request.Kind,
		Service:    job.Service,
		Status:     StatusPending,
		EnqueuedAt: job.EnqueuedAt,
	})
	logger.Log.Info("Job queued", zap.String("id", job.ID), zap.String("service", job.Service), zap.Int("position", position))

	q.signal()
	return position, nil
}

// Clear drops every pending job and returns how many were dropped.
// A job already being dispatched is not affected.
func (q *Queue) Clear() int {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	metrics.QueueLength.Set(0)
	q.mu.Unlock()

	for _, job := range dropped {
		q.history.UpdateStatus(job.ID, StatusCleared, "")
	}
	metrics.QueueJobsTotal.WithLabelValues(StatusCleared).Add(float64(len(dropped)))
	if len(dropped) > 0 {
		logger.Log.Info("Queue cleared", zap.Int("dropped", len(dropped)))
	}
	return len(dropped)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Snapshot is what clients see of the queue.
type Snapshot struct {
	State  State       `json:"state"`
	Length int         `json:"length"`
	Jobs   []JobRecord `json:"jobs"`
}

func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	s := Snapshot{State: q.state, Length: len(q.pending)}
	q.mu.Unlock()
	s.Jobs = q.history.Entries()
	return s
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}
		q.drain(ctx)
	}
}

func (q *Queue) drain(ctx context.Context) {
	for {
		q.mu.Lock()
		if ctx.Err() != nil || len(q.pending) == 0 {
			q.setState(StateIdle)
			q.mu.Unlock()
			return
		}
		q.setState(StateDispatching)
		wait := time.Duration(0)
		if !q.lastDone.IsZero() {
			wait = q.delay - time.Since(q.lastDone)
		}
		q.mu.Unlock()

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				q.mu.Lock()
				q.setState(StateIdle)
				q.mu.Unlock()
				return
			case <-timer.C:
			}
		}

		// Clear may have emptied the queue while we waited.
		q.mu.Lock()
		if ctx.Err() != nil || len(q.pending) == 0 {
			q.setState(StateIdle)
			q.mu.Unlock()
			return
		}
		job := q.pending[0]
		q.pending[0] = data.QueueJob{}
		q.pending = q.pending[1:]
		metrics.QueueLength.Set(float64(len(q.pending)))
		q.mu.Unlock()

		q.process(ctx, job)

		q.mu.Lock()
		q.lastDone = time.Now()
		q.mu.Unlock()
	}
}

func (q *Queue) process(ctx context.Context, job data.QueueJob) {
	q.history.UpdateStatus(job.ID, StatusPrinting, "")

	if err := q.dispatch(ctx, job); err != nil {
		logger.Log.Error("Queued job failed, continuing with next:", zap.String("id", job.ID), zap.String("service", job.Service), zap.Error(err))
		q.history.UpdateStatus(job.ID, StatusFailed, err.Error())
		metrics.QueueJobsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}

	logger.Log.Info("Queued job printed", zap.String("id", job.ID), zap.String("service", job.Service))
	q.history.UpdateStatus(job.ID, StatusCompleted, "")
	metrics.QueueJobsTotal.WithLabelValues(StatusCompleted).Inc()
}

// setState must be called with q.mu held.
func (q *Queue) setState(s State) {
	q.state = s
	if s == StateDispatching {
		metrics.QueueDispatching.Set(1)
	} else {
		metrics.QueueDispatching.Set(0)
	}
}
