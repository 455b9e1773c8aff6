package jobdesk

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/service/aggregator"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/approval/dispatcher"
	"github.com/bigsources/jobdesk/service/gateway"
	"github.com/bigsources/jobdesk/service/messaging"
	qmem "github.com/bigsources/jobdesk/service/messaging/memory"
	"github.com/bigsources/jobdesk/service/review"
	"github.com/bigsources/jobdesk/service/tasks"
	"github.com/bigsources/jobdesk/session"
	"github.com/bigsources/jobdesk/tracing"
)

// ErrTaskNotFound is returned when a task id is not in the current snapshot.
var ErrTaskNotFound = errors.New("task not found")

// Service wires the task list, dispatcher and review sub-flow around one
// gateway client and one admin session.
type Service struct {
	config     *Config
	session    *session.Session
	logger     *zap.Logger
	httpClient *http.Client
	source     tasks.Source
	events     messaging.Queue[approval.Event]
	policy     *policy.Policy
	tracingErr error

	gateway  *gateway.Client
	tasks    *tasks.Service
	approval approval.Service
	review   *review.Service
}

// New creates a Service. The API key is revealed through scy when the
// config points at an encrypted secret.
func New(ctx context.Context, options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if s.tracingErr != nil {
		return nil, errors.Wrap(s.tracingErr, "failed to initialise tracing")
	}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init(ctx context.Context) error {
	cfg := s.config
	if s.logger == nil {
		l, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		s.logger = l
	}
	if s.session == nil {
		s.session = &cfg.Session
	}
	if s.policy == nil {
		s.policy = policy.FromConfig(&cfg.Policy)
	}
	if cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile); err != nil {
			return errors.Wrap(err, "failed to initialise tracing")
		}
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.Gateway.Timeout()}
	}
	apiKey, err := gateway.RevealAPIKey(ctx, &cfg.Gateway.APIKey)
	if err != nil {
		return err
	}

	s.gateway = gateway.NewClient(cfg.Gateway.ResolvedEndpoints(),
		gateway.WithHTTPClient(s.httpClient),
		gateway.WithAPIKey(apiKey),
		gateway.WithToken(s.session.Token),
		gateway.WithLogger(s.logger))

	if s.source == nil {
		if cfg.Tasks.SnapshotURL != "" {
			s.source = tasks.NewFileSource(cfg.Tasks.SnapshotURL)
		} else {
			s.source = s.gateway
		}
	}
	s.tasks = tasks.New(s.source, tasks.WithLogger(s.logger))

	if s.events == nil {
		s.events = qmem.NewQueue[approval.Event](cfg.Events.queueConfig())
	}
	s.approval = dispatcher.New(s.gateway, s.tasks,
		dispatcher.WithLogger(s.logger),
		dispatcher.WithAdminID(s.session.AdminID),
		dispatcher.WithQueue(s.events))
	s.review = review.New(s.gateway, s.tasks,
		review.WithLogger(s.logger),
		review.WithCacheSize(cfg.Review.CacheSize))
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Session returns the acting admin session.
func (s *Service) Session() *session.Session { return s.session }

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger { return s.logger }

// Tasks returns the task list holder.
func (s *Service) Tasks() *tasks.Service { return s.tasks }

// Approval returns the dispatcher.
func (s *Service) Approval() approval.Service { return s.approval }

// Review returns the review sub-flow.
func (s *Service) Review() *review.Service { return s.review }

// Gateway returns the backend client.
func (s *Service) Gateway() *gateway.Client { return s.gateway }

// Refresh refetches the task list.
func (s *Service) Refresh(ctx context.Context) error { return s.tasks.Refresh(ctx) }

// List loads tasks on first use and returns one page of filtered groups. A
// non-positive size uses the configured page size.
func (s *Service) List(ctx context.Context, criteria aggregator.Criteria, page, size int) (aggregator.Page, error) {
	if err := s.tasks.Ensure(ctx); err != nil {
		return aggregator.Page{}, err
	}
	if size <= 0 {
		size = s.config.Tasks.PageSize
	}
	return s.tasks.Page(criteria, page, size), nil
}

// Summary loads tasks on first use and counts groups matching criteria.
func (s *Service) Summary(ctx context.Context, criteria aggregator.Criteria) (aggregator.Summary, error) {
	if err := s.tasks.Ensure(ctx); err != nil {
		return aggregator.Summary{}, err
	}
	return aggregator.Summarize(s.tasks.Groups(criteria)), nil
}

// Task returns a task of the current snapshot, loading it on first use.
func (s *Service) Task(ctx context.Context, id task.ID) (*task.Task, error) {
	if err := s.tasks.Ensure(ctx); err != nil {
		return nil, err
	}
	t, ok := s.tasks.Task(id)
	if !ok {
		return nil, errors.WithHint(errors.Wrapf(ErrTaskNotFound, "task %s", id), review.HintNotFound)
	}
	return t, nil
}

// Dispatch approves or rejects the task with id.
func (s *Service) Dispatch(ctx context.Context, id task.ID, action approval.Action) (*approval.Decision, error) {
	t, err := s.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.approval.Dispatch(s.withPolicy(ctx), t, action)
}

// MarkPremium sets the premium flag of a job.
func (s *Service) MarkPremium(ctx context.Context, jobID task.ID, premium bool) (*approval.Decision, error) {
	return s.approval.MarkPremium(s.withPolicy(ctx), jobID, premium)
}

// Decisions lists the decisions dispatched through this service, oldest
// first.
func (s *Service) Decisions(ctx context.Context) ([]*approval.Decision, error) {
	return s.approval.Decisions(ctx)
}

// FlushEvents hands every buffered decision event to fn in publish order.
// An event fn fails on is redelivered within events.maxRetries.
func (s *Service) FlushEvents(ctx context.Context, fn func(*approval.Event) error) error {
	return messaging.Flush[approval.Event](ctx, s.events, fn)
}

// Policy returns the confirmation policy applied to decisions.
func (s *Service) Policy() *policy.Policy { return s.policy }

// withPolicy attaches the service policy unless ctx already carries one.
func (s *Service) withPolicy(ctx context.Context) context.Context {
	if policy.FromContext(ctx) != nil {
		return ctx
	}
	return policy.WithPolicy(ctx, s.policy)
}

// Open opens the task with id for review.
func (s *Service) Open(ctx context.Context, id task.ID) (*review.Review, error) {
	t, err := s.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.review.Open(ctx, t)
}

// Submit stores an edited job opened earlier.
func (s *Service) Submit(ctx context.Context, jobID task.ID, form *job.Form) (*job.Job, error) {
	return s.review.Submit(ctx, jobID, form)
}
