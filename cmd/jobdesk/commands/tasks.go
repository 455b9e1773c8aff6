package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/aggregator"
	"github.com/bigsources/jobdesk/service/tasks"
)

// TasksCmd lists job groups with their tasks
var TasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List pending admin tasks grouped by job",
	Long: `List admin tasks grouped by job, most recently posted first.

A job is shown under a status filter when any of its tasks has that status.

Examples:
  jobdesk tasks                            # First page of all jobs
  jobdesk tasks --status pending --page 2  # Second page of jobs with pending tasks
  jobdesk tasks --search acme              # Match title, company or job id
  jobdesk tasks --save file:///tmp/t.json  # Export the fetched snapshot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		save, _ := cmd.Flags().GetString("save")
		asJSON, _ := cmd.Flags().GetBool("json")
		return runTasks(cmd, aggregator.Criteria{Search: search, Status: task.Status(status)}, page, size, save, asJSON)
	},
}

func init() {
	TasksCmd.Flags().StringP("search", "s", "", "Case-insensitive match on title, company or job id")
	TasksCmd.Flags().String("status", "", "Filter by task status (pending, fulfilled, all)")
	TasksCmd.Flags().IntP("page", "p", 1, "Page number")
	TasksCmd.Flags().Int("size", 0, "Page size (defaults to tasks.pageSize)")
	TasksCmd.Flags().String("save", "", "Write the fetched task snapshot to this URL")
	TasksCmd.Flags().Bool("json", false, "Print the page as JSON")
}

func runTasks(cmd *cobra.Command, criteria aggregator.Criteria, number, size int, save string, asJSON bool) error {
	ctx := cmd.Context()
	srv, renderer, err := newService(cmd)
	if err != nil {
		return err
	}
	page, err := srv.List(ctx, criteria, number, size)
	if err != nil {
		return err
	}
	if save != "" {
		if err = tasks.Save(ctx, save, srv.Tasks().Tasks()); err != nil {
			return err
		}
	}
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(page)
	}
	summary, err := srv.Summary(ctx, criteria)
	if err != nil {
		return err
	}
	return renderer.Page(page, summary)
}
