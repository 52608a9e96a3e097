package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Exclude string
}

// CheckResult is the outcome of an overlap check.
type CheckResult struct {
	WorkCenterID string            `json:"work_center_id"`
	Start        calendar.Date     `json:"start_date"`
	End          calendar.Date     `json:"end_date"`
	Free         bool              `json:"free"`
	Conflicts    []model.WorkOrder `json:"conflicts"`
}

// WriteText prints the verdict and any conflicting orders.
func (r CheckResult) WriteText(w io.Writer) error {
	if r.Free {
		_, err := fmt.Fprintf(w, "✓ %s is free from %s to %s\n", r.WorkCenterID, r.Start, r.End)
		return err
	}
	if _, err := fmt.Fprintf(w, "✗ %s has %d conflicting order(s) from %s to %s\n",
		r.WorkCenterID, len(r.Conflicts), r.Start, r.End); err != nil {
		return err
	}
	for _, o := range r.Conflicts {
		if _, err := fmt.Fprintf(w, "  %s  %-24s %-12s %s to %s\n",
			o.ID, o.Name, o.Status.Label(), o.StartDate, o.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <work-center> <start> <end>",
		Short: "Check an interval for overlapping work orders",
		Long: `Check whether [start, end) on a work center collides with a scheduled order.

Intervals that only touch (one ends the day the other starts) do not
collide. Use --exclude to ignore the order being rescheduled.

Exit codes:
  0 - Interval is free
  1 - Interval conflicts with one or more orders
  2 - Command error (bad dates, unknown work center, etc.)

Examples:
  gantry check wc-1 2024-03-01 2024-03-08
  gantry check wc-1 2024-03-01 2024-03-08 --exclude wo-1`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "work order id to ignore")

	return cmd
}

func runCheck(opts *CheckOptions, workCenterID, startArg, endArg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	start, err := calendar.Parse(startArg)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidArgs, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid start date", err)
	}
	end, err := calendar.Parse(endArg)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidArgs, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid end date", err)
	}
	if !end.After(start) {
		msg := fmt.Sprintf("end %s must be after start %s", end, start)
		_ = formatter.Error(ErrCodeInvalidArgs, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if _, ok := sess.store.WorkCenter(workCenterID); !ok {
		msg := fmt.Sprintf("work center %q not found", workCenterID)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	conflicts := sess.editor.Check(workCenterID, start, end, opts.Exclude)
	if conflicts == nil {
		conflicts = []model.WorkOrder{}
	}
	result := CheckResult{
		WorkCenterID: workCenterID,
		Start:        start,
		End:          end,
		Free:         len(conflicts) == 0,
		Conflicts:    conflicts,
	}
	sess.logger.Debug("checked interval", "work_center", workCenterID, "conflicts", len(conflicts))

	if result.Free {
		return formatter.Success(result)
	}
	msg := fmt.Sprintf("%d conflicting order(s)", len(conflicts))
	if err := formatter.Error(ErrCodeConflict, msg, result); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}
