package tasks

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/aggregator"
)

// Source fetches the complete admin task list.
type Source interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
}

// Service holds the last fetched task list.
type Service struct {
	source    Source
	logger    *zap.Logger
	mu        sync.RWMutex
	tasks     []*task.Task
	refreshes int
	loaded    bool
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logger.OrNop(l) }
}

// New creates a task list holder over source.
func New(source Source, options ...Option) *Service {
	ret := &Service{source: source, logger: zap.NewNop()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Refresh refetches the full task list and replaces the snapshot. On error
// the previous snapshot is kept.
func (s *Service) Refresh(ctx context.Context) error {
	if s.source == nil {
		return errors.New("task source is not configured")
	}
	fetched, err := s.source.ListTasks(ctx)
	if err != nil {
		s.logger.Error("task refresh failed", zap.Error(err))
		return errors.WithHint(errors.Wrap(err, "failed to fetch tasks"), "failed to load tasks, please try again")
	}
	s.mu.Lock()
	s.tasks = fetched
	s.refreshes++
	s.loaded = true
	s.mu.Unlock()
	s.logger.Debug("tasks refreshed", zap.Int(logger.FieldCount, len(fetched)))
	return nil
}

// Ensure refreshes once if nothing has been loaded yet.
func (s *Service) Ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Tasks returns a copy of the snapshot.
func (s *Service) Tasks() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*task.Task(nil), s.tasks...)
}

// Task returns the snapshot task with id.
func (s *Service) Task(id task.ID) (*task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t != nil && t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Groups aggregates the snapshot.
func (s *Service) Groups(criteria aggregator.Criteria) []*task.JobGroup {
	return aggregator.Aggregate(s.Tasks(), criteria)
}

// Page aggregates the snapshot and returns one page of groups.
func (s *Service) Page(criteria aggregator.Criteria, number, size int) aggregator.Page {
	return aggregator.Paginate(s.Groups(criteria), number, size)
}

// Refreshes returns how many successful refetches happened.
func (s *Service) Refreshes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshes
}
