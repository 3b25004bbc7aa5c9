package queue

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Task is one unit of work for a chat
type Task func(ctx context.Context) error

// Queue runs the tasks of one chat strictly one after another, in the order
// they were enqueued.
//
// Capacity is unbounded: an overloaded chat accumulates pending tasks in
// memory instead of dropping them. A failing or panicking task is logged and
// the next task runs as usual.
type Queue struct {
	ctx    context.Context
	logger *zap.Logger

	mu      sync.Mutex
	tasks   []Task
	running bool
	done    chan struct{}
}

// New creates an idle queue. Tasks receive ctx when they run.
func New(ctx context.Context, logger *zap.Logger) *Queue {
	return &Queue{
		ctx:    ctx,
		logger: logger,
	}
}

// Enqueue appends a task. It never blocks.
func (q *Queue) Enqueue(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tasks = append(q.tasks, task)
	if q.running {
		return
	}
	q.running = true
	q.done = make(chan struct{})
	go q.work(q.done)
}

// Len returns the number of tasks waiting to start
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

// Wait blocks until the queue has no running or pending task
func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		if !q.running {
			q.mu.Unlock()
			return nil
		}
		done := q.done
		q.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *Queue) work(done chan struct{}) {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.tasks = nil
			close(done)
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		if err := q.run(task); err != nil {
			q.logger.Error("Task failed", zap.Error(err))
		}
	}
}

// run executes a single task, turning a panic into an error
func (q *Queue) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return task(q.ctx)
}
