package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/journal"
	"github.com/roach88/gantry/internal/layout"
)

// AuditOptions holds flags for the audit command.
type AuditOptions struct {
	*RootOptions
	Zoom     string
	Database string
}

// AuditResult reports standing overlaps and per-center load.
type AuditResult struct {
	Zoom     layout.Zoom          `json:"zoom"`
	Start    calendar.Date        `json:"start"`
	End      calendar.Date        `json:"end"`
	Overlaps []journal.Conflict   `json:"overlaps"`
	Load     []journal.CenterLoad `json:"load"`
	Events   int                  `json:"events"`
}

// WriteText prints the overlaps, then a load table for the window.
func (r AuditResult) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("Audit of %s view %s to %s (%d journaled event(s))\n\n", r.Zoom.Label(), r.Start, r.End, r.Events)

	if len(r.Overlaps) == 0 {
		ew.printf("✓ No overlapping work orders\n")
	} else {
		ew.printf("✗ %d overlapping pair(s):\n", len(r.Overlaps))
		for _, c := range r.Overlaps {
			ew.printf("  %s: %s and %s overlap from %s to %s\n", c.WorkCenterID, c.A, c.B, c.From, c.To)
		}
	}

	ew.printf("\n%-28s %6s %6s\n", "Work center", "Orders", "Days")
	for _, l := range r.Load {
		ew.printf("%-28s %6d %6d\n", l.Name, l.Orders, l.Days)
	}
	return ew.err
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the schedule for overlaps and load",
		Long: `Load the schedule into the journal database and report, with SQL:
  - pairs of orders on one work center whose intervals overlap, and
  - per work center, the orders and booked days inside the visible window.

Overlaps are prevented when orders are submitted, so any pair reported
here came from the seed. With --db the journal is kept in a SQLite file
and each audit appends a snapshot event.

Exit codes:
  0 - No overlaps
  1 - One or more overlapping pairs
  2 - Command error

Examples:
  gantry audit
  gantry audit --zoom week --seed plant.yaml
  gantry audit --db gantry.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Zoom, "zoom", string(layout.DefaultZoom), "zoom level for the load window (day|week|month)")
	cmd.Flags().StringVar(&opts.Database, "db", journal.MemoryPath, "journal database path")

	return cmd
}

func runAudit(opts *AuditOptions, cmd *cobra.Command) error {
	zoom, err := layout.ParseZoom(opts.Zoom)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --zoom", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	j, err := journal.Open(opts.Database, journal.WithLogger(sess.logger))
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := j.Close(); closeErr != nil {
			sess.logger.Error("error closing journal", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rec := j.Record(ctx, sess.store)
	rec.Stop()
	if err := rec.Err(); err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to journal snapshot", err)
	}

	result, err := audit(ctx, j, sess, zoom)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "audit failed", err)
	}

	if len(result.Overlaps) == 0 {
		return formatter.Success(result)
	}
	msg := fmt.Sprintf("%d overlapping pair(s)", len(result.Overlaps))
	if err := formatter.Error(ErrCodeConflict, msg, result); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func audit(ctx context.Context, j *journal.Journal, sess *session, zoom layout.Zoom) (AuditResult, error) {
	if err := j.LoadSnapshot(ctx, sess.store.ListWorkCenters(), sess.store.ListWorkOrders()); err != nil {
		return AuditResult{}, err
	}
	overlaps, err := j.Overlaps(ctx)
	if err != nil {
		return AuditResult{}, err
	}

	// The view's last column day is inclusive.
	start, end := layout.ViewWindow(zoom, sess.today)
	load, err := j.Load(ctx, start, end.AddDays(1))
	if err != nil {
		return AuditResult{}, err
	}

	events, err := j.CountEvents(ctx, "")
	if err != nil {
		return AuditResult{}, err
	}

	return AuditResult{
		Zoom:     zoom,
		Start:    start,
		End:      end,
		Overlaps: overlaps,
		Load:     load,
		Events:   events,
	}, nil
}

// errWriter keeps the first write error so a run of printf calls can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
