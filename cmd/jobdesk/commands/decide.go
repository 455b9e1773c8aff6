package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bigsources/jobdesk"
	"github.com/bigsources/jobdesk/internal/idgen"
	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/progress"
	"github.com/bigsources/jobdesk/service/approval"
)

// ApproveCmd approves a task
var ApproveCmd = &cobra.Command{
	Use:   "approve <task-id>...",
	Short: "Approve one or more tasks",
	Long: `Approve a task. The endpoint is chosen by the task category:

  postnewjob                    approve the new posting
  editjob                       approve the edit
  closedjob                     approve closing the job
  newapplication                approve the application
  change status of application  approve the status change

Examples:
  jobdesk approve 42
  jobdesk approve 42 43 44 --yes
  jobdesk approve 42 --events`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(cmd, ids(args), approval.ActionApprove)
	},
}

// RejectCmd rejects a task
var RejectCmd = &cobra.Command{
	Use:   "reject <task-id>...",
	Short: "Reject a new job posting",
	Long: `Reject a task. Only new job postings (postnewjob) can be rejected.

Example:
  jobdesk reject 42`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(cmd, ids(args), approval.ActionReject)
	},
}

// PremiumCmd toggles the premium flag of a job
var PremiumCmd = &cobra.Command{
	Use:   "premium <job-id>",
	Short: "Mark a job premium",
	Long: `Mark a job premium, or remove the flag with --off.

Examples:
  jobdesk premium J-100
  jobdesk premium J-100 --off`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		off, _ := cmd.Flags().GetBool("off")
		return runPremium(cmd, task.ID(args[0]), !off)
	},
}

func init() {
	PremiumCmd.Flags().Bool("off", false, "Remove the premium flag")
	for _, cmd := range []*cobra.Command{ApproveCmd, RejectCmd, PremiumCmd} {
		cmd.Flags().BoolP("yes", "y", false, "Skip confirmation when the policy mode is ask")
		cmd.Flags().Bool("events", false, "Print decision events as JSON lines")
	}
}

func ids(args []string) []task.ID {
	ret := make([]task.ID, 0, len(args))
	for _, arg := range args {
		ret = append(ret, task.ID(arg))
	}
	return ret
}

// runDecide dispatches every id in turn. A failed task does not stop the
// batch; all failures are returned together.
func runDecide(cmd *cobra.Command, ids []task.ID, action approval.Action) error {
	srv, renderer, err := newService(cmd)
	if err != nil {
		return err
	}
	ctx := withConfirm(cmd, srv)
	ctx, tracker := progress.WithNewTracker(ctx, idgen.New(), string(action), nil)
	tracker.Update(progress.Delta{Total: len(ids), Pending: len(ids)})

	var result error
	for _, id := range ids {
		decision, err := srv.Dispatch(ctx, id, action)
		if err != nil {
			if _, tracked := srv.Tasks().Task(id); !tracked {
				tracker.Update(progress.Delta{Failed: 1, Pending: -1})
			}
			result = errors.CombineErrors(result, err)
			continue
		}
		if err = renderer.Decision(decision); err != nil {
			return err
		}
	}
	if len(ids) > 1 {
		snapshot := tracker.Snapshot()
		if err = renderer.Progress(&snapshot); err != nil {
			return err
		}
		decisions, err := srv.Decisions(ctx)
		if err != nil {
			return err
		}
		if err = renderer.Failures(decisions); err != nil {
			return err
		}
	}
	if err = writeEvents(cmd, srv); err != nil {
		return err
	}
	return result
}

func runPremium(cmd *cobra.Command, jobID task.ID, premium bool) error {
	srv, renderer, err := newService(cmd)
	if err != nil {
		return err
	}
	decision, err := srv.MarkPremium(withConfirm(cmd, srv), jobID, premium)
	if err != nil {
		return errors.CombineErrors(err, writeEvents(cmd, srv))
	}
	if err = renderer.Decision(decision); err != nil {
		return err
	}
	return writeEvents(cmd, srv)
}

// writeEvents flushes the decision events of this run as JSON lines when
// --events is set.
func writeEvents(cmd *cobra.Command, srv *jobdesk.Service) error {
	if on, _ := cmd.Flags().GetBool("events"); !on {
		return nil
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	return srv.FlushEvents(cmd.Context(), func(event *approval.Event) error {
		return encoder.Encode(event)
	})
}

// withConfirm returns a context whose policy prompts on the terminal when
// the configured mode is ask, or skips prompting with --yes.
func withConfirm(cmd *cobra.Command, srv *jobdesk.Service) context.Context {
	ctx := cmd.Context()
	configured := srv.Policy()
	if configured == nil || configured.Mode != policy.ModeAsk {
		return ctx
	}
	p := *configured
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		p.Mode = policy.ModeAuto
		return policy.WithPolicy(ctx, &p)
	}
	p.Ask = func(ctx context.Context, operation, subject string, _ *policy.Policy) bool {
		ok, err := pterm.DefaultInteractiveConfirm.
			WithDefaultText(fmt.Sprintf("%s %s?", operation, subject)).
			Show()
		return err == nil && ok
	}
	return policy.WithPolicy(ctx, &p)
}
