package job

import (
	"encoding/json"

	"github.com/bigsources/jobdesk/model/task"
)

// Job represents a job posting as returned by the recruiter's posted-jobs
// endpoint. Fields the form edits are always encoded, so an explicit zero
// reaches the backend. Fields not modelled here are kept from the fetched
// document and written back unchanged.
type Job struct {
	JobID         task.ID   `json:"job_id"`
	RecruiterID   task.ID   `json:"recruiter_id,omitempty"`
	Title         string    `json:"title"`
	CompanyName   string    `json:"company_name,omitempty"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	JobType       string    `json:"job_type"`
	MinSalary     float64   `json:"min_salary"`
	MaxSalary     float64   `json:"max_salary"`
	MinExperience float64   `json:"min_experience"`
	MaxExperience float64   `json:"max_experience"`
	Skills        []string  `json:"skills"`
	Openings      int       `json:"openings"`
	Deadline      task.Date `json:"deadline"`
	Status        string    `json:"status,omitempty"`
	IsPremium     bool      `json:"is_premium,omitempty"`
	PostedDate    task.Date `json:"posted_date"`

	raw map[string]json.RawMessage
}

type plainJob Job

// UnmarshalJSON decodes the modelled fields and keeps the whole document.
func (j *Job) UnmarshalJSON(data []byte) error {
	var decoded plainJob
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*j = Job(decoded)
	j.raw = raw
	return nil
}

// MarshalJSON lays the modelled fields over the fetched document.
func (j Job) MarshalJSON() ([]byte, error) {
	encoded := plainJob(j)
	if encoded.Skills == nil {
		encoded.Skills = []string{}
	}
	typed, err := json.Marshal(encoded)
	if err != nil || len(j.raw) == 0 {
		return typed, err
	}
	var fields map[string]json.RawMessage
	if err = json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(j.raw)+len(fields))
	for key, value := range j.raw {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// Extra returns the raw value of a field not modelled by Job.
func (j *Job) Extra(name string) (json.RawMessage, bool) {
	value, ok := j.raw[name]
	return value, ok
}

// Applicant is a read-only view of one application to a job.
type Applicant struct {
	ApplicationID task.ID   `json:"application_id"`
	JobID         task.ID   `json:"job_id,omitempty"`
	StudentID     task.ID   `json:"student_id,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ResumeURL     string    `json:"resume_url,omitempty"`
	Status        string    `json:"status,omitempty"`
	AppliedDate   task.Date `json:"applied_date"`
}

// Recruiter holds resolved recruiter and company info.
type Recruiter struct {
	RecruiterID    task.ID `json:"recruiter_id"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	CompanyName    string  `json:"company_name,omitempty"`
	CompanyWebsite string  `json:"company_website,omitempty"`
}
