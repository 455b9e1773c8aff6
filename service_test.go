package jobdesk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/service/aggregator"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/session"
)

type backend struct {
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string][]map[string]interface{}
	auth   []string
	fail   map[string]int
}

const tasksJSON = `[
 {"id":1,"job_id":"J1","category":"postnewjob","status":"pending","posted_date":"2025-01-01","recruiter_id":"R1","title":"Go Engineer","company_name":"Acme"},
 {"id":2,"job_id":"J1","category":"editjob","status":"fulfilled","posted_date":"2025-01-02","recruiter_id":"R1"},
 {"id":3,"job_id":"J2","category":"closedjob","status":"pending","posted_date":"2025-03-01","recruiter_id":"R2","title":"Analyst"},
 {"id":4,"category":"newapplication","status":"pending","application_id":"A1"}
]`

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	b := &backend{hits: map[string]int{}, bodies: map[string][]map[string]interface{}{}, fail: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.hits[r.URL.Path]++
		b.auth = append(b.auth, r.Header.Get("Authorization"))
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			var body map[string]interface{}
			_ = json.Unmarshal(data, &body)
			b.bodies[r.URL.Path] = append(b.bodies[r.URL.Path], body)
		}
		if code, ok := b.fail[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		switch r.URL.Path {
		case "/tasks":
			_, _ = w.Write([]byte(tasksJSON))
		case "/recruiter-jobs":
			_, _ = w.Write([]byte(`[{"job_id":"J1","title":"Go Engineer","max_salary":100}]`))
		case "/recruiter":
			_, _ = w.Write([]byte(`{"name":"Ravi","company_name":"Acme"}`))
		default:
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		}
	}))
	t.Cleanup(server.Close)
	return b, server
}

func (b *backend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func newService(t *testing.T, server *httptest.Server) *jobdesk.Service {
	cfg := jobdesk.DefaultConfig()
	cfg.Gateway.BaseURL = server.URL
	srv, err := jobdesk.New(context.Background(),
		jobdesk.WithConfig(cfg),
		jobdesk.WithSession(session.New("admin-1", "tok-1")),
		jobdesk.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return srv
}

func TestService_List(t *testing.T) {
	b, server := newBackend(t)
	srv := newService(t, server)
	ctx := context.Background()

	page, err := srv.List(ctx, aggregator.Criteria{}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "J2", page.Groups[0].Key)
	assert.Equal(t, "J1", page.Groups[1].Key)
	assert.Equal(t, "no-job-4", page.Groups[2].Key)

	fulfilled, err := srv.List(ctx, aggregator.Criteria{Status: task.StatusFulfilled}, 1, 0)
	require.NoError(t, err)
	require.Len(t, fulfilled.Groups, 1)
	assert.Equal(t, "J1", fulfilled.Groups[0].Key)

	summary, err := srv.Summary(ctx, aggregator.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Tasks)

	assert.Equal(t, 1, b.count("/tasks"), "list reuses the snapshot")
	assert.Equal(t, "Bearer tok-1", b.auth[0])
}

func TestService_Dispatch(t *testing.T) {
	type testCase struct {
		name          string
		taskID        task.ID
		action        approval.Action
		fail          map[string]int
		expectedPath  string
		expectedFetch int
		wantErr       bool
	}

	tests := []testCase{
		{name: "approve posting", taskID: "1", action: approval.ActionApprove, expectedPath: "/approve-new-job", expectedFetch: 2},
		{name: "reject posting", taskID: "1", action: approval.ActionReject, expectedPath: "/reject-new-job", expectedFetch: 2},
		{name: "approve closing", taskID: "3", action: approval.ActionApprove, expectedPath: "/approve-job-closing", expectedFetch: 2},
		{name: "reject edit is a contract error", taskID: "2", action: approval.ActionReject, expectedFetch: 1, wantErr: true},
		{name: "backend failure", taskID: "4", action: approval.ActionApprove, fail: map[string]int{"/approve-new-application": 500}, expectedPath: "/approve-new-application", expectedFetch: 1, wantErr: true},
		{name: "unknown task", taskID: "99", action: approval.ActionApprove, expectedFetch: 1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, server := newBackend(t)
			for k, v := range tc.fail {
				b.fail[k] = v
			}
			srv := newService(t, server)

			decision, err := srv.Dispatch(context.Background(), tc.taskID, tc.action)
			if tc.wantErr {
				require.Error(t, err)
				assert.NotEmpty(t, approval.UserMessage(err))
			} else {
				require.NoError(t, err)
				assert.False(t, decision.Failed())
			}
			if tc.expectedPath != "" {
				assert.Equal(t, 1, b.count(tc.expectedPath))
				assert.Equal(t, string(tc.taskID), b.bodies[tc.expectedPath][0]["task_id"])
			}
			assert.Equal(t, tc.expectedFetch, b.count("/tasks"))
		})
	}
}

func TestService_MarkPremium(t *testing.T) {
	b, server := newBackend(t)
	srv := newService(t, server)

	_, err := srv.MarkPremium(context.Background(), "J2", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"job_id": "J2", "is_premium": true}, b.bodies["/premium"][0])
	assert.Equal(t, 1, b.count("/tasks"))
	assert.Equal(t, 1, srv.Tasks().Refreshes())
}

func TestService_OpenAndSubmit(t *testing.T) {
	b, server := newBackend(t)
	srv := newService(t, server)
	ctx := context.Background()

	opened, err := srv.Open(ctx, "2")
	require.NoError(t, err)
	require.True(t, opened.Editable())
	assert.Equal(t, "Acme", opened.Recruiter.CompanyName)

	opened.Form.MinSalary = 40
	updated, err := srv.Submit(ctx, "J1", opened.Form)
	require.NoError(t, err)
	assert.Equal(t, float64(40), updated.MinSalary)
	assert.Equal(t, 1, b.count("/jobs/J1"))
	assert.Equal(t, 2, b.count("/tasks"))

	_, err = srv.Open(ctx, "3")
	require.Error(t, err, "J2 is not in R2's job list")
	assert.Equal(t, "not found or no permission", approval.UserMessage(err))

	_, err = srv.Open(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("/recruiter"), "recruiter cached for the session")
}

func TestService_Events(t *testing.T) {
	_, server := newBackend(t)
	srv := newService(t, server)
	ctx := context.Background()

	_, err := srv.Dispatch(ctx, "1", approval.ActionApprove)
	require.NoError(t, err)
	msg, err := srv.Approval().Queue().Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, approval.TopicDecisionCreated, msg.T().Topic)
	assert.Equal(t, "admin-1", msg.T().Headers["admin_id"])
}

func TestService_FlushEvents(t *testing.T) {
	type testCase struct {
		name           string
		events         jobdesk.EventsConfig
		failFirst      bool
		expectedTopics []string
		expectedErr    bool
	}

	tests := []testCase{
		{
			name:           "in publish order",
			events:         jobdesk.EventsConfig{Buffer: 4},
			expectedTopics: []string{approval.TopicDecisionCreated, approval.TopicPremiumChanged},
		},
		{
			name:           "redelivered within retries",
			events:         jobdesk.EventsConfig{Buffer: 4, MaxRetries: 1},
			failFirst:      true,
			expectedTopics: []string{approval.TopicPremiumChanged, approval.TopicDecisionCreated},
			expectedErr:    true,
		},
		{
			name:           "dropped without retries",
			events:         jobdesk.EventsConfig{Buffer: 4},
			failFirst:      true,
			expectedTopics: []string{approval.TopicPremiumChanged},
			expectedErr:    true,
		},
		{
			name:           "buffer full drops later events",
			events:         jobdesk.EventsConfig{Buffer: 1},
			expectedTopics: []string{approval.TopicDecisionCreated},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, server := newBackend(t)
			cfg := jobdesk.DefaultConfig()
			cfg.Gateway.BaseURL = server.URL
			cfg.Events = tc.events
			srv, err := jobdesk.New(context.Background(), jobdesk.WithConfig(cfg), jobdesk.WithLogger(zap.NewNop()))
			require.NoError(t, err)
			ctx := context.Background()

			_, err = srv.Dispatch(ctx, "1", approval.ActionApprove)
			require.NoError(t, err)
			_, err = srv.MarkPremium(ctx, "J2", true)
			require.NoError(t, err)

			var topics []string
			failed := false
			err = srv.FlushEvents(ctx, func(event *approval.Event) error {
				if tc.failFirst && !failed {
					failed = true
					return errors.New("sink unavailable")
				}
				topics = append(topics, event.Topic)
				return nil
			})
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectedTopics, topics)
		})
	}
}

func TestService_Policy(t *testing.T) {
	b, server := newBackend(t)
	cfg := jobdesk.DefaultConfig()
	cfg.Gateway.BaseURL = server.URL
	cfg.Policy = policy.Config{BlockList: []string{string(approval.OperationMarkPremium)}}
	srv, err := jobdesk.New(context.Background(), jobdesk.WithConfig(cfg), jobdesk.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = srv.MarkPremium(ctx, "J2", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, policy.ErrBlocked))
	assert.Equal(t, 0, b.count("/premium"))

	// A policy carried by the context wins over the configured one.
	_, err = srv.MarkPremium(policy.WithPolicy(ctx, &policy.Policy{Mode: policy.ModeAuto}), "J2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("/premium"))
}

func TestNew_InvalidTracing(t *testing.T) {
	_, err := jobdesk.New(context.Background(), jobdesk.WithTracing("jobdesk", "test", "/nonexistent/dir/trace.txt"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, jobdesk.ErrTaskNotFound))
}
