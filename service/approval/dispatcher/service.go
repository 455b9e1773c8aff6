package dispatcher

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/internal/clock"
	"github.com/bigsources/jobdesk/internal/idgen"
	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/progress"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/dao"
	"github.com/bigsources/jobdesk/service/dao/store"
	"github.com/bigsources/jobdesk/service/messaging"
	qmem "github.com/bigsources/jobdesk/service/messaging/memory"
	"github.com/bigsources/jobdesk/tracing"
)

// HeaderAdminID carries the acting admin on events.
const HeaderAdminID = "admin_id"

type service struct {
	invoker   approval.Invoker
	refresher approval.Refresher
	decisions dao.Service[string, approval.Decision]
	events    messaging.Queue[approval.Event]
	logger    *zap.Logger
	adminID   string
}

func decisionKey(d *approval.Decision) string { return d.ID }

// New creates a dispatcher that calls invoker and refreshes through refresher.
func New(invoker approval.Invoker, refresher approval.Refresher, options ...Option) approval.Service {
	ret := &service{
		invoker:   invoker,
		refresher: refresher,
		decisions: store.NewMemoryStore[string, approval.Decision](decisionKey),
		events:    qmem.NewQueue[approval.Event](qmem.DefaultConfig()),
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Dispatch(ctx context.Context, t *task.Task, action approval.Action) (*approval.Decision, error) {
	if t == nil {
		return nil, errors.New("nil task")
	}
	decision := &approval.Decision{
		ID:       idgen.New(),
		TaskID:   t.ID,
		JobID:    t.JobID,
		Category: t.Category,
		Action:   action,
		Approved: action == approval.ActionApprove,
	}
	op, err := approval.Resolve(t.Category, action)
	if err != nil {
		return s.fail(ctx, decision, err)
	}
	decision.Operation = op
	target := &approval.Target{TaskID: t.ID, JobID: t.JobID}
	return s.invoke(ctx, decision, target, approval.TopicDecisionCreated)
}

func (s *service) MarkPremium(ctx context.Context, jobID task.ID, premium bool) (*approval.Decision, error) {
	decision := &approval.Decision{
		ID:        idgen.New(),
		JobID:     jobID,
		Operation: approval.OperationMarkPremium,
		Approved:  true,
		Premium:   premium,
	}
	if jobID == "" {
		return s.fail(ctx, decision, errors.New("premium requires a job id"))
	}
	target := &approval.Target{JobID: jobID, Premium: premium}
	return s.invoke(ctx, decision, target, approval.TopicPremiumChanged)
}

func (s *service) invoke(ctx context.Context, decision *approval.Decision, target *approval.Target, topic string) (*approval.Decision, error) {
	if err := policy.FromContext(ctx).Check(ctx, string(decision.Operation), subject(decision)); err != nil {
		return s.fail(ctx, decision, err)
	}
	ctx, span := tracing.StartSpan(ctx, "approval."+string(decision.Operation), tracing.KindInternal)
	span.WithAttributes(map[string]string{
		logger.FieldTaskID:    string(decision.TaskID),
		logger.FieldJobID:     string(decision.JobID),
		logger.FieldOperation: string(decision.Operation),
	})
	if err := s.invoker.Invoke(ctx, decision.Operation, target); err != nil {
		tracing.EndSpan(span, err)
		return s.fail(ctx, decision, err)
	}
	tracing.EndSpan(span, nil)

	decision.DecidedAt = clock.Now()
	s.record(ctx, decision)
	s.publish(ctx, topic, decision)
	progress.UpdateCtx(ctx, progress.Delta{Completed: 1, Pending: -1})
	s.logger.Info("decision dispatched",
		zap.String(logger.FieldTaskID, string(decision.TaskID)),
		zap.String(logger.FieldJobID, string(decision.JobID)),
		zap.String(logger.FieldOperation, string(decision.Operation)))

	// The backend is the source of truth; show whatever it settled on.
	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			s.logger.Warn("task refresh failed after dispatch",
				zap.String(logger.FieldOperation, string(decision.Operation)),
				zap.Error(err))
		}
	}
	return decision, nil
}

// fail records, logs and publishes a failed decision. No retry or refresh.
func (s *service) fail(ctx context.Context, decision *approval.Decision, cause error) (*approval.Decision, error) {
	decision.Error = cause.Error()
	decision.DecidedAt = clock.Now()
	s.record(ctx, decision)
	s.publish(ctx, approval.TopicDecisionFailed, decision)
	progress.UpdateCtx(ctx, progress.Delta{Failed: 1, Pending: -1})
	s.logger.Error("decision failed",
		zap.String(logger.FieldTaskID, string(decision.TaskID)),
		zap.String(logger.FieldJobID, string(decision.JobID)),
		zap.String(logger.FieldCategory, string(decision.Category)),
		zap.String(logger.FieldAction, string(decision.Action)),
		zap.String(logger.FieldOperation, string(decision.Operation)),
		zap.Error(cause))
	err := errors.Wrap(cause, describe(decision))
	return decision, errors.WithHint(err, approval.HintRetry)
}

func describe(decision *approval.Decision) string {
	switch {
	case decision.Operation == approval.OperationMarkPremium:
		return "premium for " + subject(decision)
	case decision.Action != "":
		return string(decision.Action) + " " + subject(decision)
	default:
		return subject(decision)
	}
}

func subject(decision *approval.Decision) string {
	if decision.Operation == approval.OperationMarkPremium {
		return "job " + string(decision.JobID)
	}
	return "task " + string(decision.TaskID)
}

// record keeps decision in the session log. The dispatch outcome stands even
// when it cannot be recorded.
func (s *service) record(ctx context.Context, decision *approval.Decision) {
	if err := s.decisions.Save(ctx, decision); err != nil {
		s.logger.Debug("decision not recorded",
			zap.String(logger.FieldTaskID, string(decision.TaskID)),
			zap.String(logger.FieldOperation, string(decision.Operation)),
			zap.Error(err))
	}
}

func (s *service) publish(ctx context.Context, topic string, decision *approval.Decision) {
	event := &approval.Event{Topic: topic, Data: decision}
	if s.adminID != "" {
		event.Headers = map[string]string{HeaderAdminID: s.adminID}
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Debug("event dropped", zap.String("topic", topic), zap.Error(err))
	}
}

func (s *service) Decisions(ctx context.Context) ([]*approval.Decision, error) {
	return s.decisions.List(ctx)
}

func (s *service) Queue() messaging.Queue[approval.Event] { return s.events }

var _ approval.Service = (*service)(nil)
