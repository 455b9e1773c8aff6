package progress

import (
	"context"
	"sync"
	"time"

	"github.com/bigsources/jobdesk/internal/clock"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Pending   int
}

// Progress keeps aggregated counters for one batch. It is safe for
// concurrent use.
type Progress struct {
	BatchID   string
	Operation string
	StartedAt time.Time

	Total     int
	Completed int
	Failed    int
	Pending   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies d. The onChange callback, if any, receives a copy taken
// under the lock and runs outside it.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Total += d.Total
	p.Completed += d.Completed
	p.Failed += d.Failed
	p.Pending += d.Pending
	snapshot := p.copyLocked()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

// Done returns true when nothing is pending. It is safe to call while other
// goroutines update p.
func (p *Progress) Done() bool {
	if p == nil {
		return true
	}
	p.Lock()
	defer p.Unlock()
	return p.Pending <= 0
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		BatchID:   p.BatchID,
		Operation: p.Operation,
		StartedAt: p.StartedAt,
		Total:     p.Total,
		Completed: p.Completed,
		Failed:    p.Failed,
		Pending:   p.Pending,
	}
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, batchID, operation string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		BatchID:   batchID,
		Operation: operation,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker in ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
