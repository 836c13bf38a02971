package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemindCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send the due-card reminder now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				reminder, err := a.reminder()
				if err != nil {
					return err
				}
				r, err := reminder.RunManualCheck(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d due, %d new, %d upcoming\n",
					r.Date, r.Stats.DueToday, r.Stats.Unseen, r.Stats.Upcoming)
				return nil
			})
		},
	}
}
