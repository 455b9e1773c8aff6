package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bigsources/jobdesk/model/job"
	"github.com/bigsources/jobdesk/model/task"
)

// OpenCmd shows the record behind a task
var OpenCmd = &cobra.Command{
	Use:   "open <task-id>",
	Short: "Show the job or application behind a task",
	Long: `Show the job posting or application a task refers to.

Job postings are looked up in the recruiter's posted jobs; applications in
the job's applicant list. A missing record is reported as not found.

Example:
  jobdesk open 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, renderer, err := newService(cmd)
		if err != nil {
			return err
		}
		opened, err := srv.Open(cmd.Context(), task.ID(args[0]))
		if err != nil {
			return err
		}
		return renderer.Review(opened)
	},
}

// EditCmd edits a job posting opened through a task
var EditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a new or edited job posting",
	Long: `Open the job behind a postnewjob or editjob task, apply the given field
changes and submit the job. Only flags that are passed change the job.

Example:
  jobdesk edit 42 --title "Senior Go Engineer" --skills go,kafka --max-salary 120000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, task.ID(args[0]))
	},
}

func init() {
	addFormFlags(EditCmd.Flags())
}

func addFormFlags(flags *pflag.FlagSet) {
	flags.String("title", "", "Job title")
	flags.String("description", "", "Job description")
	flags.String("location", "", "Job location")
	flags.String("job-type", "", "Job type")
	flags.Float64("min-salary", 0, "Minimum salary")
	flags.Float64("max-salary", 0, "Maximum salary")
	flags.Float64("min-experience", 0, "Minimum experience in years")
	flags.Float64("max-experience", 0, "Maximum experience in years")
	flags.StringSlice("skills", nil, "Required skills, comma separated")
	flags.Int("openings", 0, "Number of openings")
	flags.String("deadline", "", "Application deadline (YYYY-MM-DD)")
}

func runEdit(cmd *cobra.Command, id task.ID) error {
	ctx := cmd.Context()
	srv, renderer, err := newService(cmd)
	if err != nil {
		return err
	}
	opened, err := srv.Open(ctx, id)
	if err != nil {
		return err
	}
	if !opened.Editable() {
		return errors.WithHint(errors.Newf("task %s is not an editable job posting", id), "only postnewjob and editjob tasks can be edited")
	}
	if err = applyFlags(cmd.Flags(), opened.Form); err != nil {
		return err
	}
	updated, err := srv.Submit(ctx, opened.Job.JobID, opened.Form)
	if err != nil {
		return err
	}
	return renderer.Job(updated)
}

func applyFlags(flags *pflag.FlagSet, form *job.Form) error {
	if flags.Changed("title") {
		form.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		form.Description, _ = flags.GetString("description")
	}
	if flags.Changed("location") {
		form.Location, _ = flags.GetString("location")
	}
	if flags.Changed("job-type") {
		form.JobType, _ = flags.GetString("job-type")
	}
	if flags.Changed("min-salary") {
		form.MinSalary, _ = flags.GetFloat64("min-salary")
	}
	if flags.Changed("max-salary") {
		form.MaxSalary, _ = flags.GetFloat64("max-salary")
	}
	if flags.Changed("min-experience") {
		form.MinExperience, _ = flags.GetFloat64("min-experience")
	}
	if flags.Changed("max-experience") {
		form.MaxExperience, _ = flags.GetFloat64("max-experience")
	}
	if flags.Changed("skills") {
		form.Skills, _ = flags.GetStringSlice("skills")
	}
	if flags.Changed("openings") {
		form.Openings, _ = flags.GetInt("openings")
	}
	if flags.Changed("deadline") {
		value, _ := flags.GetString("deadline")
		deadline, err := task.ParseDate(value)
		if err != nil {
			return errors.WithHint(err, "use YYYY-MM-DD for --deadline")
		}
		form.Deadline = deadline
	}
	return nil
}
