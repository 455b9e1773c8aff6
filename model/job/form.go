package job

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/bigsources/jobdesk/model/task"
)

// Form is the editable subset of a job posting presented to an admin.
type Form struct {
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	JobType       string    `json:"job_type,omitempty"`
	MinSalary     float64   `json:"min_salary,omitempty"`
	MaxSalary     float64   `json:"max_salary,omitempty"`
	MinExperience float64   `json:"min_experience,omitempty"`
	MaxExperience float64   `json:"max_experience,omitempty"`
	Skills        []string  `json:"skills,omitempty"`
	Openings      int       `json:"openings,omitempty"`
	Deadline      task.Date `json:"deadline"`
}

// NewForm populates a form from a fetched job.
func NewForm(j *Job) *Form {
	return &Form{
		Title:         j.Title,
		Description:   j.Description,
		Location:      j.Location,
		JobType:       j.JobType,
		MinSalary:     j.MinSalary,
		MaxSalary:     j.MaxSalary,
		MinExperience: j.MinExperience,
		MaxExperience: j.MaxExperience,
		Skills:        append([]string(nil), j.Skills...),
		Openings:      j.Openings,
		Deadline:      j.Deadline,
	}
}

// FieldError lists invalid form fields keyed by JSON name.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range []string{"title", "salary", "experience", "openings"} {
		if msg, ok := e.Fields[name]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", name, msg))
		}
	}
	return "invalid job form: " + strings.Join(parts, "; ")
}

// Validate checks ranges and required fields.
func (f *Form) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(f.Title) == "" {
		fields["title"] = "title is required"
	}
	if f.MinSalary < 0 || f.MaxSalary < 0 {
		fields["salary"] = "salary must not be negative"
	} else if f.MaxSalary > 0 && f.MinSalary > f.MaxSalary {
		fields["salary"] = "min salary exceeds max salary"
	}
	if f.MinExperience < 0 || f.MaxExperience < 0 {
		fields["experience"] = "experience must not be negative"
	} else if f.MaxExperience > 0 && f.MinExperience > f.MaxExperience {
		fields["experience"] = "min experience exceeds max experience"
	}
	if f.Openings < 0 {
		fields["openings"] = "openings must not be negative"
	}
	if len(fields) > 0 {
		return errors.WithStack(&FieldError{Fields: fields})
	}
	return nil
}

// Normalize trims text fields and drops empty or duplicate skills,
// preserving order.
func (f *Form) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	f.JobType = strings.TrimSpace(f.JobType)
	seen := map[string]bool{}
	skills := f.Skills[:0]
	for _, skill := range f.Skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}
	f.Skills = skills
}

// Apply copies form values onto j, leaving ownership fields untouched.
func (f *Form) Apply(j *Job) {
	j.Title = f.Title
	j.Description = f.Description
	j.Location = f.Location
	j.JobType = f.JobType
	j.MinSalary = f.MinSalary
	j.MaxSalary = f.MaxSalary
	j.MinExperience = f.MinExperience
	j.MaxExperience = f.MaxExperience
	j.Skills = append([]string(nil), f.Skills...)
	j.Openings = f.Openings
	j.Deadline = f.Deadline
}
