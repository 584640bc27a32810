package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-agenda/internal/reminder"
)

// NewRemindCommand runs the reminder job once, as the scheduler would.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send due appointment reminders once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}

			svc, closeLedger, err := reminder.FromConfig(e.cfg, e.db, e.log)
			if err != nil {
				return err
			}
			defer closeLedger()

			report, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"units: %d  sent: %d  failed: %d  skipped: %d\n",
				report.Units, report.Sent, report.Failed, report.Skipped,
			)
			return err
		},
	}
}
