package task

// JobGroup bundles every task that shares a job id. It is derived data:
// rebuilt from the task list on every pass and never persisted.
type JobGroup struct {
	Key         string  `json:"key"`
	JobID       ID      `json:"job_id,omitempty"`
	CompanyName string  `json:"company_name,omitempty"`
	Title       string  `json:"title,omitempty"`
	PostedDate  Date    `json:"posted_date"`
	UpdatedDate Date    `json:"updated_date"`
	IsPremium   bool    `json:"is_premium"`
	Tasks       []*Task `json:"tasks"`
}

// NewJobGroup seeds a group's display fields from the first task seen for
// its key. The seed itself is not appended.
func NewJobGroup(seed *Task) *JobGroup {
	return &JobGroup{
		Key:         seed.GroupKey(),
		JobID:       seed.JobID,
		CompanyName: seed.CompanyName,
		Title:       seed.Title,
		PostedDate:  seed.PostedDate,
		UpdatedDate: seed.UpdatedDate,
		IsPremium:   seed.IsPremium,
	}
}

// Append adds tasks in order.
func (g *JobGroup) Append(tasks ...*Task) {
	g.Tasks = append(g.Tasks, tasks...)
}

// HasStatus returns true when any task of the group has the given status.
func (g *JobGroup) HasStatus(status Status) bool {
	for _, t := range g.Tasks {
		if t.Status == status {
			return true
		}
	}
	return false
}

// Pending returns the group's pending tasks in order.
func (g *JobGroup) Pending() []*Task {
	return g.WithStatus(StatusPending)
}

// WithStatus returns the group's tasks that have the given status.
func (g *JobGroup) WithStatus(status Status) []*Task {
	var result []*Task
	for _, t := range g.Tasks {
		if t.Status == status {
			result = append(result, t)
		}
	}
	return result
}

// Orphan returns true when the group was keyed by a task without a job id.
func (g *JobGroup) Orphan() bool {
	return g.JobID == ""
}
