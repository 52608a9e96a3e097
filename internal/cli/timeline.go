package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/render"
)

// TimelineOptions holds flags for the timeline command.
type TimelineOptions struct {
	*RootOptions
	Zoom       string
	Width      float64
	CellWidth  int
	LabelWidth int
	NoColor    bool
}

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimelineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Render the work order timeline",
		Long: `Render every work center with its work orders on the visible window.

The window is centered on today: two weeks either side at day zoom, eight
weeks at week zoom, and three months back to eight months ahead at month
zoom. With --format json the layout document (columns, rows and bar
rectangles in pixels) is printed instead.

Examples:
  gantry timeline
  gantry timeline --zoom day --today 2024-03-01
  gantry timeline --zoom week --no-color
  gantry timeline --format json --width 120`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Zoom, "zoom", string(layout.DefaultZoom), "zoom level (day|week|month)")
	cmd.Flags().Float64Var(&opts.Width, "width", layout.DefaultColumnWidth, "column width in pixels")
	cmd.Flags().IntVar(&opts.CellWidth, "cell", 0, "characters per column in text output (default 12, 18 at week zoom)")
	cmd.Flags().IntVar(&opts.LabelWidth, "label", 0, "width of the work center column (default 24)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "plain ASCII output")

	return cmd
}

// timelineResult pairs the JSON layout document with its text rendering.
type timelineResult struct {
	input   render.Input
	options render.TextOptions
}

func (r timelineResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(render.NewDocument(r.input))
}

func (r timelineResult) WriteText(w io.Writer) error {
	return render.Text(w, r.input, r.options)
}

func runTimeline(opts *TimelineOptions, cmd *cobra.Command) error {
	zoom, err := layout.ParseZoom(opts.Zoom)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --zoom", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	view := layout.NewView(zoom, sess.today, opts.Width)
	sess.logger.Debug("view", "zoom", string(zoom), "start", view.Start.String(), "end", view.End.String(),
		"columns", len(view.Columns))

	return opts.formatter(cmd).Success(timelineResult{
		input: render.Input{
			View:    view,
			Centers: sess.store.ListWorkCenters(),
			Orders:  sess.store.ListWorkOrders(),
			Today:   sess.today,
		},
		options: render.TextOptions{
			CellWidth:  opts.CellWidth,
			LabelWidth: opts.LabelWidth,
			NoColor:    opts.NoColor,
		},
	})
}
