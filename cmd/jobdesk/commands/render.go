package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/progress"
	"github.com/bigsources/jobdesk/service/aggregator"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/review"
	"github.com/bigsources/jobdesk/session"
)

// Renderer prints command output in the selected theme.
type Renderer struct {
	w     io.Writer
	theme session.Theme
}

// NewRenderer creates a renderer writing to w. The plain theme disables
// pterm styling for the process.
func NewRenderer(w io.Writer, theme session.Theme) *Renderer {
	if theme == session.ThemePlain {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
	return &Renderer{w: w, theme: theme}
}

func (r *Renderer) paint(fn func(a ...interface{}) string, text string) string {
	if r.theme == session.ThemePlain {
		return text
	}
	return fn(text)
}

// Page prints one page of job groups.
func (r *Renderer) Page(page aggregator.Page, summary aggregator.Summary) error {
	if page.Total == 0 {
		_, err := fmt.Fprintln(r.w, "No tasks found")
		return err
	}
	data := pterm.TableData{{"JOB", "TITLE", "COMPANY", "POSTED", "PREMIUM", "TASKS"}}
	for _, group := range page.Groups {
		premium := ""
		if group.IsPremium {
			premium = r.paint(pterm.Yellow, "yes")
		}
		data = append(data, []string{
			group.Key,
			group.Title,
			group.CompanyName,
			group.PostedDate.String(),
			premium,
			r.tasks(group.Tasks),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.w, "%s\n\nPage %d/%d | %d job(s) | %d pending | %d fulfilled\n",
		table, page.Number, page.Pages, page.Total, summary.Pending, summary.Fulfilled)
	return err
}

func (r *Renderer) tasks(tasks []*task.Task) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		status := string(t.Status)
		switch t.Status {
		case task.StatusPending:
			status = r.paint(pterm.LightRed, status)
		case task.StatusFulfilled:
			status = r.paint(pterm.Green, status)
		}
		parts = append(parts, fmt.Sprintf("#%s %s (%s)", t.ID, t.Category, status))
	}
	return strings.Join(parts, ", ")
}

// Decision prints a dispatch outcome.
func (r *Renderer) Decision(d *approval.Decision) error {
	subject := "task " + string(d.TaskID)
	if d.Operation == approval.OperationMarkPremium {
		subject = "job " + string(d.JobID)
	}
	_, err := fmt.Fprintf(r.w, "%s %s: %s\n", r.paint(pterm.Green, "done"), subject, d.Operation)
	return err
}

// Progress prints batch counters.
func (r *Renderer) Progress(p *progress.Progress) error {
	failed := fmt.Sprintf("%d failed", p.Failed)
	if p.Failed > 0 {
		failed = r.paint(pterm.LightRed, failed)
	}
	_, err := fmt.Fprintf(r.w, "%d/%d done | %s\n", p.Completed, p.Total, failed)
	return err
}

// Failures lists the failed decisions; nothing is printed when none failed.
func (r *Renderer) Failures(decisions []*approval.Decision) error {
	data := pterm.TableData{{"TASK", "JOB", "OPERATION", "ERROR"}}
	for _, d := range decisions {
		if !d.Failed() {
			continue
		}
		data = append(data, []string{string(d.TaskID), string(d.JobID), string(d.Operation), d.Error})
	}
	if len(data) == 1 {
		return nil
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.w, "%s\n%s\n", r.paint(pterm.LightRed, "Failed decisions"), table)
	return err
}

// Review prints an opened task.
func (r *Renderer) Review(rv *review.Review) error {
	data := pterm.TableData{{"FIELD", "VALUE"}}
	add := func(name, value string) {
		if value != "" {
			data = append(data, []string{name, value})
		}
	}
	add("task", fmt.Sprintf("#%s %s (%s)", rv.Task.ID, rv.Task.Category, rv.Task.Status))
	if rv.Recruiter != nil {
		add("recruiter", strings.TrimSpace(rv.Recruiter.Name+" "+rv.Recruiter.Email))
		add("company", rv.Recruiter.CompanyName)
		add("website", rv.Recruiter.CompanyWebsite)
	}
	if rv.Job != nil {
		appendJob(add, rv.Job)
	}
	if a := rv.Applicant; a != nil {
		add("application", string(a.ApplicationID))
		add("name", a.Name)
		add("email", a.Email)
		add("phone", a.Phone)
		add("resume", a.ResumeURL)
		add("status", a.Status)
		add("applied", a.AppliedDate.String())
	}
	mode := "read-only"
	if rv.Editable() {
		mode = "editable"
	}
	add("mode", r.paint(pterm.Cyan, mode))
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.w, table)
	return err
}

// Job prints a job after an update.
func (r *Renderer) Job(j *job.Job) error {
	data := pterm.TableData{{"FIELD", "VALUE"}}
	appendJob(func(name, value string) {
		if value != "" {
			data = append(data, []string{name, value})
		}
	}, j)
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.w, "%s updated\n%s\n", r.paint(pterm.Green, "job"), table)
	return err
}

func appendJob(add func(name, value string), j *job.Job) {
	add("job", string(j.JobID))
	add("title", j.Title)
	add("company", j.CompanyName)
	add("location", j.Location)
	add("type", j.JobType)
	add("salary", rangeText(j.MinSalary, j.MaxSalary))
	add("experience", rangeText(j.MinExperience, j.MaxExperience))
	add("skills", strings.Join(j.Skills, ", "))
	if j.Openings > 0 {
		add("openings", fmt.Sprint(j.Openings))
	}
	add("deadline", j.Deadline.String())
	add("description", j.Description)
}

func rangeText(lo, hi float64) string {
	switch {
	case lo == 0 && hi == 0:
		return ""
	case hi == 0:
		return fmt.Sprintf("%g+", lo)
	}
	return fmt.Sprintf("%g - %g", lo, hi)
}
