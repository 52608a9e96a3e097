package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/seed"
	"github.com/roach88/gantry/internal/store"
)

// session is a loaded dataset ready to be queried.
type session struct {
	today  calendar.Date
	store  *store.Store
	editor *editor.Editor
	logger *slog.Logger
}

// openSession resolves today and loads the seed into a fresh store.
// Seed problems are reported on the formatter and returned as exit code 1;
// unreadable files are exit code 2.
func openSession(opts *RootOptions, cmd *cobra.Command, editorOpts ...editor.Option) (*session, error) {
	logger := opts.Logger(cmd.ErrOrStderr())

	today, err := opts.TodayDate()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --today", err)
	}

	ds, err := opts.Dataset(today)
	if err != nil {
		var seedErr *seed.Error
		if errors.As(err, &seedErr) {
			_ = opts.formatter(cmd).Error(ErrCodeSeed, "invalid seed "+seedErr.Source, problemList(seedErr.Problems))
			return nil, WrapExitError(ExitFailure, "invalid seed", err)
		}
		return nil, WrapExitError(ExitCommandError, "failed to load seed", err)
	}
	logger.Debug("seed loaded", "source", seedSource(opts), "work_centers", len(ds.WorkCenters),
		"work_orders", len(ds.WorkOrders), "today", today.String())

	s := store.New(ds.WorkCenters, ds.WorkOrders, store.WithLogger(logger))
	editorOpts = append([]editor.Option{editor.WithLogger(logger)}, editorOpts...)
	return &session{
		today:  today,
		store:  s,
		editor: editor.New(s, editorOpts...),
		logger: logger,
	}, nil
}

func seedSource(opts *RootOptions) string {
	if opts.Seed == "" {
		return "builtin"
	}
	return opts.Seed
}

// problemList prints one problem per line in text mode.
type problemList []string

func (p problemList) WriteText(w io.Writer) error {
	for _, problem := range p {
		if _, err := fmt.Fprintf(w, "  - %s\n", problem); err != nil {
			return err
		}
	}
	return nil
}
