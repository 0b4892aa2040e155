package composer

import (
	"context"
)

// Task tracks one asynchronous intent. The store has already applied the
// outcome to its state by the time Done is closed.
type Task struct {
	done    chan struct{}
	err     error
	skipped bool
	cancel  context.CancelFunc
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{done: make(chan struct{}), cancel: cancel}
}

func completedTask(err error, skipped bool) *Task {
	t := &Task{done: make(chan struct{}), err: err, skipped: skipped}
	close(t.done)
	return t
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err is the request error, nil while the task is running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the request. A cancelled task settles state but shows no
// error banner.
func (t *Task) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Skipped reports whether the intent finished without issuing a request.
func (t *Task) Skipped() bool {
	return t.skipped
}
