// Package cli implements the gantry command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/seed"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Today   string // YYYY-MM-DD, default the system date
	Seed    string // seed file, default the built-in sample

	// Clock supplies today when Today is empty. Tests pin it.
	Clock calendar.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gantry CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Clock: calendar.SystemClock{}}

	cmd := &cobra.Command{
		Use:   "gantry",
		Short: "gantry - work order timeline",
		Long: `Schedule work orders on work centers along a day, week or month timeline.

Loads a seed dataset (the built-in sample unless --seed is given), then renders
the timeline, checks candidate intervals for overlaps, audits the schedule or
runs scripted scenarios.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Today != "" {
				if _, err := calendar.Parse(opts.Today); err != nil {
					return WrapExitError(ExitCommandError, "invalid --today", err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Today, "today", "", "pin today's date (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&opts.Seed, "seed", "", "seed file (default: built-in sample)")

	cmd.AddCommand(NewTimelineCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewMetricsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Logger returns the diagnostics logger: debug-level text on w under
// --verbose, discarded otherwise.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	if !o.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TodayDate resolves --today, falling back to the clock.
func (o *RootOptions) TodayDate() (calendar.Date, error) {
	if o.Today != "" {
		return calendar.Parse(o.Today)
	}
	if o.Clock == nil {
		return calendar.SystemClock{}.Today(), nil
	}
	return o.Clock.Today(), nil
}

// Dataset loads --seed, or the built-in sample.
func (o *RootOptions) Dataset(today calendar.Date) (seed.Dataset, error) {
	if o.Seed == "" {
		return seed.Builtin(today), nil
	}
	return seed.Load(o.Seed, today)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
