package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigsources/jobdesk/cmd/jobdesk/commands"
	"github.com/bigsources/jobdesk/service/approval"
)

var rootCmd = &cobra.Command{
	Use:   "jobdesk",
	Short: "Review and approve pending job portal tasks",
	Long: `jobdesk - admin review for the Bigsources job portal.

Tasks are fetched from the portal's API Gateway, grouped per job and
dispatched back as approve, reject or premium decisions. After every
successful decision the task list is fetched again.

Examples:
  jobdesk tasks --status pending           # List jobs with pending tasks
  jobdesk approve 42                       # Approve task 42
  jobdesk reject 42                        # Reject a new job posting
  jobdesk premium J-100                    # Mark a job premium
  jobdesk open 42                          # Show the job or application behind a task
  jobdesk edit 42 --max-salary 90000       # Edit and resubmit a job posting`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	commands.AddGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.TasksCmd)
	rootCmd.AddCommand(commands.ApproveCmd)
	rootCmd.AddCommand(commands.RejectCmd)
	rootCmd.AddCommand(commands.PremiumCmd)
	rootCmd.AddCommand(commands.OpenCmd)
	rootCmd.AddCommand(commands.EditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", approval.UserMessage(err))
		if verbose, _ := rootCmd.PersistentFlags().GetCount("verbose"); verbose > 0 {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
}
