package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/internal/idgen"
	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/tracing"
)

// Request headers.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderAPIKey    = "x-api-key"
)

// Client calls the backend functions.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	apiKey     string
	token      string
	logger     *zap.Logger
}

// NewClient creates a client for endpoints.
func NewClient(endpoints Endpoints, options ...Option) *Client {
	ret := &Client{
		endpoints:  endpoints,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

type taskRequest struct {
	TaskID task.ID `json:"task_id"`
	JobID  task.ID `json:"job_id,omitempty"`
}

type premiumRequest struct {
	JobID     task.ID `json:"job_id"`
	IsPremium bool    `json:"is_premium"`
}

// ListTasks returns every admin task.
func (c *Client) ListTasks(ctx context.Context) ([]*task.Task, error) {
	data, err := c.do(ctx, http.MethodGet, c.endpoints.Tasks, "list_tasks", nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[task.Task](data)
}

// Invoke calls the endpoint of op for target.
func (c *Client) Invoke(ctx context.Context, op approval.Operation, target *approval.Target) error {
	if target == nil {
		return errors.New("gateway: nil target")
	}
	URL, err := c.endpoints.URL(op)
	if err != nil {
		return err
	}
	var body interface{}
	if op == approval.OperationMarkPremium {
		if target.JobID == "" {
			return errors.Newf("gateway: %s requires job_id", op)
		}
		body = &premiumRequest{JobID: target.JobID, IsPremium: target.Premium}
	} else {
		if target.TaskID == "" {
			return errors.Newf("gateway: %s requires task_id", op)
		}
		body = &taskRequest{TaskID: target.TaskID, JobID: target.JobID}
	}
	data, err := c.do(ctx, http.MethodPost, URL, string(op), body)
	if err != nil {
		return err
	}
	return proxyError(data)
}

// ListRecruiterJobs returns every job posted by recruiterID.
func (c *Client) ListRecruiterJobs(ctx context.Context, recruiterID task.ID) ([]*job.Job, error) {
	URL, err := withQuery(c.endpoints.RecruiterJobs, "employer_id", string(recruiterID))
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodGet, URL, "list_recruiter_jobs", nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[job.Job](data)
}

// ListApplicants returns every application to jobID.
func (c *Client) ListApplicants(ctx context.Context, jobID task.ID) ([]*job.Applicant, error) {
	URL, err := withQuery(c.endpoints.Applicants, "job_id", string(jobID))
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodGet, URL, "list_applicants", nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[job.Applicant](data)
}

// UpdateJob stores an edited job under its job_id.
func (c *Client) UpdateJob(ctx context.Context, j *job.Job) error {
	if j == nil || j.JobID == "" {
		return errors.New("gateway: update requires job_id")
	}
	URL := strings.TrimRight(c.endpoints.UpdateJob, "/") + "/" + url.PathEscape(string(j.JobID))
	data, err := c.do(ctx, http.MethodPut, URL, "update_job", j)
	if err != nil {
		return err
	}
	return proxyError(data)
}

// GetRecruiter returns recruiter and company info. A nil recruiter with no
// error means the backend knows no such user.
func (c *Client) GetRecruiter(ctx context.Context, recruiterID task.ID) (*job.Recruiter, error) {
	URL, err := withQuery(c.endpoints.Recruiter, "user_id", string(recruiterID))
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodGet, URL, "get_recruiter", nil)
	if err != nil {
		return nil, err
	}
	recruiter, err := DecodeOne[job.Recruiter](data)
	if err != nil || recruiter == nil {
		return nil, err
	}
	if recruiter.RecruiterID == "" {
		recruiter.RecruiterID = recruiterID
	}
	return recruiter, nil
}

func (c *Client) do(ctx context.Context, method, URL, name string, payload interface{}) (data []byte, err error) {
	if URL == "" {
		return nil, errors.Newf("gateway: endpoint for %s is not configured", name)
	}
	requestID := idgen.NewRequestID()
	ctx, span := tracing.StartSpan(ctx, "gateway."+name, tracing.KindClient)
	span.WithAttributes(map[string]string{"http.method": method, "http.url": URL, "request_id": requestID})
	defer func() { tracing.EndSpan(span, err) }()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s request", name)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s request", name)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	c.logger.Debug("gateway request",
		zap.String(logger.FieldOperation, name),
		zap.String(logger.FieldRequestID, requestID),
		zap.String("method", method),
		zap.String("url", URL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "send %s request", name)
	}
	defer resp.Body.Close()
	span.SetStatusFromHTTPCode(resp.StatusCode)
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(&StatusError{Method: method, URL: URL, StatusCode: resp.StatusCode, Body: string(data)})
	}
	return data, nil
}

func withQuery(endpoint, key, value string) (string, error) {
	if endpoint == "" {
		return "", errors.Newf("gateway: endpoint for %s lookup is not configured", key)
	}
	if value == "" {
		return "", errors.Newf("gateway: %s is required", key)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrapf(err, "invalid endpoint %s", endpoint)
	}
	query := u.Query()
	query.Set(key, value)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
