package approval

import (
	"context"

	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/messaging"
)

// Service dispatches admin decisions to the backend.
type Service interface {
	// Dispatch resolves and invokes the operation for t and action, then
	// refreshes the task list once on success.
	Dispatch(ctx context.Context, t *task.Task, action Action) (*Decision, error)
	// MarkPremium toggles the premium flag of a job.
	MarkPremium(ctx context.Context, jobID task.ID, premium bool) (*Decision, error)
	// Decisions lists dispatch attempts of this session, oldest first.
	Decisions(ctx context.Context) ([]*Decision, error)
	// Queue returns the outcome event queue.
	Queue() messaging.Queue[Event]
}

// Invoker calls a backend operation.
type Invoker interface {
	Invoke(ctx context.Context, op Operation, target *Target) error
}

// Refresher refetches the full task list.
type Refresher interface {
	Refresh(ctx context.Context) error
}
