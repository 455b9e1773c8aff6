package review

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/dao"
	"github.com/bigsources/jobdesk/service/dao/store"
)

// Client is the subset of the gateway the sub-flow needs.
type Client interface {
	ListRecruiterJobs(ctx context.Context, recruiterID task.ID) ([]*job.Job, error)
	ListApplicants(ctx context.Context, jobID task.ID) ([]*job.Applicant, error)
	UpdateJob(ctx context.Context, j *job.Job) error
	GetRecruiter(ctx context.Context, recruiterID task.ID) (*job.Recruiter, error)
}

// Refresher refetches the full task list.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Review is an opened task. Form is set only for editable job postings.
type Review struct {
	Task      *task.Task     `json:"task"`
	Job       *job.Job       `json:"job,omitempty"`
	Form      *job.Form      `json:"form,omitempty"`
	Applicant *job.Applicant `json:"applicant,omitempty"`
	Recruiter *job.Recruiter `json:"recruiter,omitempty"`
}

// Editable returns true when the review has an edit submission path.
func (r *Review) Editable() bool { return r != nil && r.Form != nil }

// Service opens and submits reviews.
type Service struct {
	client     Client
	refresher  Refresher
	logger     *zap.Logger
	recruiters dao.Service[task.ID, job.Recruiter]
	opened     dao.Service[task.ID, job.Job]
	lookups    atomic.Int64
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logger.OrNop(l) }
}

// WithCacheSize bounds the recruiter cache; the oldest entry is evicted
// first. Zero or less keeps it unbounded.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.recruiters = store.NewBoundedMemoryStore[task.ID, job.Recruiter](size, recruiterKey)
		}
	}
}

func recruiterKey(r *job.Recruiter) task.ID { return r.RecruiterID }
func jobKey(j *job.Job) task.ID             { return j.JobID }

// New creates the sub-flow service.
func New(client Client, refresher Refresher, options ...Option) *Service {
	ret := &Service{
		client:     client,
		refresher:  refresher,
		logger:     zap.NewNop(),
		recruiters: store.NewMemoryStore[task.ID, job.Recruiter](recruiterKey),
		opened:     store.NewMemoryStore[task.ID, job.Job](jobKey),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Open loads the record t refers to. New and edited postings open as an
// editable form; closing requests open read-only; application tasks open
// the applicant read-only.
func (s *Service) Open(ctx context.Context, t *task.Task) (*Review, error) {
	if t == nil {
		return nil, errors.New("review: nil task")
	}
	switch {
	case t.Category.IsJob():
		return s.openJob(ctx, t)
	case t.Category.IsApplication():
		return s.openApplication(ctx, t)
	}
	return nil, errors.Newf("review: unsupported category %q", t.Category)
}

func (s *Service) openJob(ctx context.Context, t *task.Task) (*Review, error) {
	if !t.HasJob() || t.RecruiterID == "" {
		return nil, s.closed(ctx, t, notFound("task %s has no job or recruiter", t.ID))
	}
	jobs, err := s.client.ListRecruiterJobs(ctx, t.RecruiterID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list jobs of recruiter %s", t.RecruiterID)
	}
	var found *job.Job
	for _, candidate := range jobs {
		if candidate.JobID == t.JobID {
			found = candidate
			break
		}
	}
	if found == nil {
		return nil, s.closed(ctx, t, notFound("job %s not found for recruiter %s", t.JobID, t.RecruiterID))
	}
	if found.RecruiterID == "" {
		found.RecruiterID = t.RecruiterID
	}
	ret := &Review{Task: t, Job: found}
	if t.Category != task.CategoryClosedJob {
		ret.Form = job.NewForm(found)
		if err = s.opened.Save(ctx, found); err != nil {
			return nil, err
		}
	}
	ret.Recruiter = s.lookupRecruiter(ctx, t.RecruiterID)
	return ret, nil
}

func (s *Service) openApplication(ctx context.Context, t *task.Task) (*Review, error) {
	if !t.HasJob() || t.ApplicationID == "" {
		return nil, s.closed(ctx, t, notFound("task %s has no job or application", t.ID))
	}
	applicants, err := s.client.ListApplicants(ctx, t.JobID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list applicants of job %s", t.JobID)
	}
	for _, candidate := range applicants {
		if candidate.ApplicationID == t.ApplicationID {
			ret := &Review{Task: t, Applicant: candidate}
			if t.RecruiterID != "" {
				ret.Recruiter = s.lookupRecruiter(ctx, t.RecruiterID)
			}
			return ret, nil
		}
	}
	return nil, s.closed(ctx, t, notFound("application %s not found for job %s", t.ApplicationID, t.JobID))
}

// closed drops any open edit state for t and logs the missing record.
func (s *Service) closed(ctx context.Context, t *task.Task, err error) error {
	if t.HasJob() {
		_ = s.opened.Delete(ctx, t.JobID)
	}
	s.logger.Warn("review closed",
		zap.String(logger.FieldTaskID, string(t.ID)),
		zap.String(logger.FieldJobID, string(t.JobID)),
		zap.Error(err))
	return err
}

// Submit validates form, stores the edited job opened earlier under jobID,
// closes the view and refreshes the task list once.
func (s *Service) Submit(ctx context.Context, jobID task.ID, form *job.Form) (*job.Job, error) {
	if form == nil {
		return nil, errors.New("review: nil form")
	}
	original, err := s.opened.Load(ctx, jobID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, errors.WithHint(errors.Wrapf(ErrNotEditable, "job %s is not open for editing", jobID), HintNotFound)
		}
		return nil, err
	}
	form.Normalize()
	if err = form.Validate(); err != nil {
		return nil, errors.WithHint(err, "please correct the highlighted fields")
	}
	updated := *original
	form.Apply(&updated)
	if err = s.client.UpdateJob(ctx, &updated); err != nil {
		s.logger.Error("job update failed", zap.String(logger.FieldJobID, string(jobID)), zap.Error(err))
		return nil, errors.WithHint(errors.Wrapf(err, "failed to update job %s", jobID), "failed, please try again")
	}
	_ = s.opened.Delete(ctx, jobID)
	s.logger.Info("job updated", zap.String(logger.FieldJobID, string(jobID)))
	if s.refresher != nil {
		if err = s.refresher.Refresh(ctx); err != nil {
			s.logger.Warn("task refresh failed after job update", zap.Error(err))
		}
	}
	return &updated, nil
}

// Recruiter returns recruiter details, fetching each recruiter at most once
// while it stays in the cache.
func (s *Service) Recruiter(ctx context.Context, recruiterID task.ID) (*job.Recruiter, error) {
	if recruiterID == "" {
		return nil, notFound("empty recruiter id")
	}
	if cached, err := s.recruiters.Load(ctx, recruiterID); err == nil {
		return cached, nil
	}
	s.lookups.Add(1)
	recruiter, err := s.client.GetRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get recruiter %s", recruiterID)
	}
	if recruiter == nil {
		return nil, notFound("recruiter %s", recruiterID)
	}
	recruiter.RecruiterID = recruiterID
	if err = s.recruiters.Save(ctx, recruiter); err != nil {
		return nil, err
	}
	return recruiter, nil
}

// Lookups returns how many recruiter lookups reached the backend.
func (s *Service) Lookups() int { return int(s.lookups.Load()) }

// lookupRecruiter is best effort: a review still opens without recruiter details.
func (s *Service) lookupRecruiter(ctx context.Context, recruiterID task.ID) *job.Recruiter {
	recruiter, err := s.Recruiter(ctx, recruiterID)
	if err != nil {
		s.logger.Debug("recruiter lookup failed", zap.String(logger.FieldRecruiterID, string(recruiterID)), zap.Error(err))
		return nil
	}
	return recruiter
}
