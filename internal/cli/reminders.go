package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var reminderStatuses = []string{"pending", "sent", "delivered", "failed"}

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show reminder history",
	}

	cmd.AddCommand(newRemindersListCmd())

	return cmd
}

func newRemindersListCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sent and scheduled reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}
			if status != "" && !contains(reminderStatuses, status) {
				return fmt.Errorf("unknown status %q", status)
			}

			items, err := rt.api.Reminders().List(cmd.Context(), b.ID, &client.ReminderListOptions{Status: status, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to list reminders: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reminders found")
				return nil
			}

			loc := businessLoc(b)
			table := NewTable(cmd.OutOrStdout(), "ID", "CLIENT", "CHANNEL", "SCHEDULED", "STATUS")
			for _, r := range items {
				clientName := "-"
				if r.Appointment != nil {
					clientName = truncate(r.Appointment.ClientName, 24)
				}
				table.AddRow(r.ID, clientName, r.Channel, formatTime(r.ScheduledFor, loc), formatStatus(r.Status))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, sent, delivered or failed")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")

	return cmd
}
