// Package taskrunner fans a bounded number of goroutines out over
// golang.org/x/sync/errgroup and collects the first error any of them
// returns. It carries no domain knowledge of its own; ictx uses it to drive
// concurrent Transaction.Commit attempts in tests.
package taskrunner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TaskRunner runs tasks concurrently under a shared context that is
// canceled as soon as any task returns a non-nil error.
type TaskRunner struct {
	eg      *errgroup.Group
	context context.Context
}

// New derives a TaskRunner from ctx. maxThreadCount bounds how many tasks
// may run at once; zero or negative means unbounded.
func New(ctx context.Context, maxThreadCount int) *TaskRunner {
	eg, derived := errgroup.WithContext(ctx)
	if maxThreadCount > 0 {
		eg.SetLimit(maxThreadCount)
	}
	return &TaskRunner{eg: eg, context: derived}
}

// Context returns the context tasks should observe for cancellation.
func (tr *TaskRunner) Context() context.Context {
	return tr.context
}

// Go runs task in a new goroutine.
func (tr *TaskRunner) Go(task func() error) {
	tr.eg.Go(task)
}

// Wait blocks until every task launched with Go has returned, then returns
// the first non-nil error encountered, if any.
func (tr *TaskRunner) Wait() error {
	return tr.eg.Wait()
}
