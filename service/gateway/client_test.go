package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/gateway"
)

type recorded struct {
	method  string
	path    string
	query   string
	body    map[string]interface{}
	headers http.Header
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, headers: r.Header.Clone()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &call.body))
		}
		calls = append(calls, call)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_ListTasks(t *testing.T) {
	type testCase struct {
		name        string
		response    string
		expectedIDs []task.ID
	}

	tests := []testCase{
		{name: "bare array", response: `[{"id":1,"job_id":"J1","category":"postnewjob","status":"pending"},{"id":"2","category":"editjob","status":"fulfilled"}]`, expectedIDs: []task.ID{"1", "2"}},
		{name: "data envelope", response: `{"data":[{"id":7,"category":"closedjob"}]}`, expectedIDs: []task.ID{"7"}},
		{name: "lambda proxy body", response: `{"statusCode":200,"body":"[{\"id\":3}]"}`, expectedIDs: []task.ID{"3"}},
		{name: "empty", response: `[]`, expectedIDs: []task.ID{}},
		{name: "null", response: `null`, expectedIDs: []task.ID{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, calls := newServer(t, http.StatusOK, tc.response)
			client := gateway.NewClient(gateway.NewEndpoints(server.URL), gateway.WithToken("tok"), gateway.WithAPIKey("key"))

			tasks, err := client.ListTasks(context.Background())
			require.NoError(t, err)
			ids := make([]task.ID, 0, len(tasks))
			for _, item := range tasks {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)

			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, http.MethodGet, call.method)
			assert.Equal(t, "/tasks", call.path)
			assert.Equal(t, "Bearer tok", call.headers.Get("Authorization"))
			assert.Equal(t, "key", call.headers.Get(gateway.HeaderAPIKey))
			assert.NotEmpty(t, call.headers.Get(gateway.HeaderRequestID))
		})
	}
}

func TestClient_Invoke(t *testing.T) {
	type testCase struct {
		name         string
		op           approval.Operation
		target       *approval.Target
		expectedPath string
		expectedBody map[string]interface{}
		wantErr      bool
	}

	tests := []testCase{
		{
			name:         "approve new job",
			op:           approval.OperationApproveNewJob,
			target:       &approval.Target{TaskID: "11", JobID: "J1"},
			expectedPath: "/approve-new-job",
			expectedBody: map[string]interface{}{"task_id": "11", "job_id": "J1"},
		},
		{
			name:         "approve application without job",
			op:           approval.OperationApproveNewApplication,
			target:       &approval.Target{TaskID: "12"},
			expectedPath: "/approve-new-application",
			expectedBody: map[string]interface{}{"task_id": "12"},
		},
		{
			name:         "reject new job",
			op:           approval.OperationRejectNewJob,
			target:       &approval.Target{TaskID: "13", JobID: "J3"},
			expectedPath: "/reject-new-job",
			expectedBody: map[string]interface{}{"task_id": "13", "job_id": "J3"},
		},
		{
			name:         "mark premium",
			op:           approval.OperationMarkPremium,
			target:       &approval.Target{JobID: "J4", Premium: true},
			expectedPath: "/premium",
			expectedBody: map[string]interface{}{"job_id": "J4", "is_premium": true},
		},
		{name: "missing task id", op: approval.OperationApproveEditedJob, target: &approval.Target{JobID: "J1"}, wantErr: true},
		{name: "missing job id for premium", op: approval.OperationMarkPremium, target: &approval.Target{}, wantErr: true},
		{name: "unknown operation", op: "archive", target: &approval.Target{TaskID: "1"}, wantErr: true},
		{name: "nil target", op: approval.OperationApproveNewJob, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, calls := newServer(t, http.StatusOK, `{"message":"ok"}`)
			client := gateway.NewClient(gateway.NewEndpoints(server.URL))

			err := client.Invoke(context.Background(), tc.op, tc.target)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Empty(t, *calls)
				return
			}
			require.NoError(t, err)
			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, http.MethodPost, call.method)
			assert.Equal(t, tc.expectedPath, call.path)
			assert.Equal(t, tc.expectedBody, call.body)
			assert.Empty(t, call.headers.Get("Authorization"))
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	server, _ := newServer(t, http.StatusForbidden, `{"error":"denied"}`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))

	err := client.Invoke(context.Background(), approval.OperationApproveJobClosing, &approval.Target{TaskID: "1"})
	require.Error(t, err)
	assert.True(t, gateway.IsStatus(err, http.StatusForbidden))
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "denied")
}

func TestClient_ListRecruiterJobs(t *testing.T) {
	server, calls := newServer(t, http.StatusOK, `{"jobs":[{"job_id":101,"title":"Go Engineer","min_salary":10,"max_salary":20,"skills":["go"],"deadline":"2025-06-30"}]}`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))

	jobs, err := client.ListRecruiterJobs(context.Background(), "R9")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, task.ID("101"), jobs[0].JobID)
	assert.Equal(t, "2025-06-30", jobs[0].Deadline.String())
	assert.Equal(t, "employer_id=R9", (*calls)[0].query)

	_, err = client.ListRecruiterJobs(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_ListApplicants(t *testing.T) {
	server, calls := newServer(t, http.StatusOK, `[{"application_id":5,"job_id":101,"name":"Asha"}]`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))

	applicants, err := client.ListApplicants(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, []*job.Applicant{{ApplicationID: "5", JobID: "101", Name: "Asha"}}, applicants)
	assert.Equal(t, "job_id=101", (*calls)[0].query)
}

func TestClient_UpdateJob(t *testing.T) {
	server, calls := newServer(t, http.StatusOK, `{}`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))

	err := client.UpdateJob(context.Background(), &job.Job{JobID: "J 7", Title: "Edited"})
	require.NoError(t, err)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/jobs/J 7", call.path)
	assert.Equal(t, "Edited", call.body["title"])

	assert.Error(t, client.UpdateJob(context.Background(), &job.Job{}))
}

func TestClient_UpdateJobKeepsDocument(t *testing.T) {
	server, calls := newServer(t, http.StatusOK, `[{"job_id":"J1","title":"Go","qualifications":"BSc","benefits":["remote"],"min_salary":5,"openings":2}]`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))
	ctx := context.Background()

	jobs, err := client.ListRecruiterJobs(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	form := job.NewForm(jobs[0])
	form.MinSalary = 0
	form.Openings = 0
	form.Title = "Senior Go"
	updated := *jobs[0]
	form.Apply(&updated)

	require.NoError(t, client.UpdateJob(ctx, &updated))
	body := (*calls)[1].body
	assert.Equal(t, "BSc", body["qualifications"])
	assert.Equal(t, []interface{}{"remote"}, body["benefits"])
	assert.Equal(t, "Senior Go", body["title"])
	require.Contains(t, body, "min_salary")
	assert.Equal(t, float64(0), body["min_salary"])
	require.Contains(t, body, "openings")
	assert.Equal(t, float64(0), body["openings"])
}

func TestClient_ProxyStatus(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, `{"statusCode":500,"body":"{\"error\":\"boom\"}"}`)
	client := gateway.NewClient(gateway.NewEndpoints(server.URL))
	ctx := context.Background()

	_, err := client.ListTasks(ctx)
	require.Error(t, err)
	assert.True(t, gateway.IsStatus(err, http.StatusInternalServerError))
	assert.Contains(t, err.Error(), "boom")

	err = client.Invoke(ctx, approval.OperationApproveNewJob, &approval.Target{TaskID: "1"})
	assert.True(t, gateway.IsStatus(err, http.StatusInternalServerError))
	err = client.UpdateJob(ctx, &job.Job{JobID: "J1"})
	assert.True(t, gateway.IsStatus(err, http.StatusInternalServerError))
}

func TestClient_GetRecruiter(t *testing.T) {
	type testCase struct {
		name     string
		response string
		expected *job.Recruiter
	}

	tests := []testCase{
		{name: "object", response: `{"name":"Ravi","company_name":"Acme"}`, expected: &job.Recruiter{RecruiterID: "R1", Name: "Ravi", CompanyName: "Acme"}},
		{name: "array", response: `[{"recruiter_id":"R1","name":"Ravi"}]`, expected: &job.Recruiter{RecruiterID: "R1", Name: "Ravi"}},
		{name: "unknown", response: `[]`, expected: nil},
		{name: "envelope", response: `{"recruiter":{"name":"Ravi"}}`, expected: &job.Recruiter{RecruiterID: "R1", Name: "Ravi"}},
		{name: "proxy", response: `{"statusCode":200,"body":"{\"name\":\"Ravi\"}"}`, expected: &job.Recruiter{RecruiterID: "R1", Name: "Ravi"}},
		{name: "null", response: `null`, expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, calls := newServer(t, http.StatusOK, tc.response)
			client := gateway.NewClient(gateway.NewEndpoints(server.URL))
			actual, err := client.GetRecruiter(context.Background(), "R1")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, "user_id=R1", (*calls)[0].query)
		})
	}
}
