package pipeline

import (
	"context"

	"decorstudio/internal/session"
)

// Task is the completion handle of one workflow run.
type Task[T any] struct {
	run       session.Run
	done      chan struct{}
	result    T
	committed bool
}

func newTask[T any](run session.Run) *Task[T] {
	return &Task[T]{run: run, done: make(chan struct{})}
}

func (t *Task[T]) finish(result T, committed bool) {
	t.result = result
	t.committed = committed
	close(t.done)
}

// Run returns the run as it was issued.
func (t *Task[T]) Run() session.Run {
	return t.run
}

// Done is closed once the run settled.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the run settled and returns the result it produced.
// Workflow failures are carried on the result's Run, not as an error.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Committed reports whether the settled result reached the session store.
// It is false when a newer run for the same target had been issued.
func (t *Task[T]) Committed() bool {
	select {
	case <-t.done:
		return t.committed
	default:
		return false
	}
}
