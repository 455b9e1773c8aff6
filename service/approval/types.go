package approval

import (
	"time"

	"github.com/bigsources/jobdesk/model/task"
)

// Action is the admin's intent for a task.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ParseAction returns the action for s and reports whether it is known.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionApprove, ActionReject:
		return a, true
	}
	return "", false
}

// Event is published on the service queue for every dispatch outcome.
type Event struct {
	Topic   string            `json:"topic"`
	Data    *Decision         `json:"data"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Event topics.
const (
	TopicDecisionCreated = "decision.created"
	TopicDecisionFailed  = "decision.failed"
	TopicPremiumChanged  = "premium.changed"
)

// Target identifies what an operation acts on.
type Target struct {
	TaskID  task.ID `json:"task_id,omitempty"`
	JobID   task.ID `json:"job_id,omitempty"`
	Premium bool    `json:"is_premium"`
}

// Decision records one dispatch attempt.
type Decision struct {
	ID        string        `json:"id"`
	TaskID    task.ID       `json:"taskId,omitempty"`
	JobID     task.ID       `json:"jobId,omitempty"`
	Category  task.Category `json:"category,omitempty"`
	Action    Action        `json:"action,omitempty"`
	Operation Operation     `json:"operation"`
	Approved  bool          `json:"approved"`
	Premium   bool          `json:"premium,omitempty"`
	Error     string        `json:"error,omitempty"`
	DecidedAt time.Time     `json:"decidedAt"`
}

// Failed returns true when the dispatch did not reach a successful backend response.
func (d *Decision) Failed() bool { return d.Error != "" }
