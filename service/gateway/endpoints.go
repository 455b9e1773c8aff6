package gateway

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/bigsources/jobdesk/service/approval"
)

// Endpoints holds the full URL of every backend function.
type Endpoints struct {
	Tasks                    string `json:"tasks" yaml:"tasks"`
	ApproveNewJob            string `json:"approveNewJob" yaml:"approveNewJob"`
	ApproveEditedJob         string `json:"approveEditedJob" yaml:"approveEditedJob"`
	ApproveJobClosing        string `json:"approveJobClosing" yaml:"approveJobClosing"`
	ApproveNewApplication    string `json:"approveNewApplication" yaml:"approveNewApplication"`
	ApproveApplicationStatus string `json:"approveApplicationStatus" yaml:"approveApplicationStatus"`
	RejectNewJob             string `json:"rejectNewJob" yaml:"rejectNewJob"`
	Premium                  string `json:"premium" yaml:"premium"`
	RecruiterJobs            string `json:"recruiterJobs" yaml:"recruiterJobs"`
	Applicants               string `json:"applicants" yaml:"applicants"`
	UpdateJob                string `json:"updateJob" yaml:"updateJob"`
	Recruiter                string `json:"recruiter" yaml:"recruiter"`
}

// NewEndpoints derives every endpoint from a single base URL, one path
// segment per function. Useful for stages that front all functions with one
// API Gateway.
func NewEndpoints(baseURL string) Endpoints {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return Endpoints{
		Tasks:                    base + "/tasks",
		ApproveNewJob:            base + "/approve-new-job",
		ApproveEditedJob:         base + "/approve-edited-job",
		ApproveJobClosing:        base + "/approve-job-closing",
		ApproveNewApplication:    base + "/approve-new-application",
		ApproveApplicationStatus: base + "/approve-application-status",
		RejectNewJob:             base + "/reject-new-job",
		Premium:                  base + "/premium",
		RecruiterJobs:            base + "/recruiter-jobs",
		Applicants:               base + "/applicants",
		UpdateJob:                base + "/jobs",
		Recruiter:                base + "/recruiter",
	}
}

// URL returns the endpoint for op.
func (e *Endpoints) URL(op approval.Operation) (string, error) {
	var result string
	switch op {
	case approval.OperationApproveNewJob:
		result = e.ApproveNewJob
	case approval.OperationApproveEditedJob:
		result = e.ApproveEditedJob
	case approval.OperationApproveJobClosing:
		result = e.ApproveJobClosing
	case approval.OperationApproveNewApplication:
		result = e.ApproveNewApplication
	case approval.OperationApproveApplicationStatus:
		result = e.ApproveApplicationStatus
	case approval.OperationRejectNewJob:
		result = e.RejectNewJob
	case approval.OperationMarkPremium:
		result = e.Premium
	default:
		return "", errors.Newf("unknown operation %q", op)
	}
	if result == "" {
		return "", errors.Newf("endpoint for %s is not configured", op)
	}
	return result, nil
}

// Validate checks that every endpoint is set.
func (e *Endpoints) Validate() error {
	fields := map[string]string{
		"tasks":         e.Tasks,
		"recruiterJobs": e.RecruiterJobs,
		"applicants":    e.Applicants,
		"updateJob":     e.UpdateJob,
		"recruiter":     e.Recruiter,
	}
	var missing []string
	for _, name := range []string{"tasks", "recruiterJobs", "applicants", "updateJob", "recruiter"} {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	for _, op := range approval.Operations() {
		if _, err := e.URL(op); err != nil {
			missing = append(missing, string(op))
		}
	}
	if len(missing) > 0 {
		return errors.Newf("gateway endpoints not configured: %s", strings.Join(missing, ", "))
	}
	return nil
}
