package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/metrics"
)

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print store metrics in Prometheus text format",
		Long: `Load the seed and print the store instruments in the Prometheus text
exposition format: notifications by type, work orders by status and
rejected submissions by code. The output is always text.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, collector := metrics.NewRegistry()
			sess, err := openSession(rootOpts, cmd, editor.WithRejectionObserver(collector))
			if err != nil {
				return err
			}
			detach := collector.Attach(sess.store)
			defer detach()

			return metrics.WriteText(cmd.OutOrStdout(), reg)
		},
	}
}
