package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var calendarProviders = []string{"google", "calendly", "outlook"}

func newIntegrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrations",
		Short: "Manage calendar integrations",
	}

	cmd.AddCommand(newIntegrationsListCmd())
	cmd.AddCommand(newIntegrationsConnectCmd())
	cmd.AddCommand(newIntegrationsSyncCmd())
	cmd.AddCommand(newIntegrationsDisconnectCmd())

	return cmd
}

func newIntegrationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			items, err := rt.api.CalendarIntegrations().List(cmd.Context(), b.ID)
			if err != nil {
				return fmt.Errorf("failed to list integrations: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No calendars connected. Available: %s\n", strings.Join(calendarProviders, ", "))
				return nil
			}

			loc := businessLoc(b)
			table := NewTable(cmd.OutOrStdout(), "ID", "PROVIDER", "CALENDAR", "SYNC", "LAST SYNC")
			for _, i := range items {
				lastSync := "-"
				if i.LastSyncAt != nil {
					lastSync = formatTime(*i.LastSyncAt, loc)
				}
				sync := "off"
				if i.SyncEnabled {
					sync = "on"
				}
				table.AddRow(i.ID, i.Provider, deref(i.CalendarID), sync, lastSync)
			}
			table.Render()
			return nil
		},
	}
}

func newIntegrationsConnectCmd() *cobra.Command {
	var calendarID string
	var noSync bool

	cmd := &cobra.Command{
		Use:       "connect <provider>",
		Short:     "Connect a calendar (google, calendly, outlook)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: calendarProviders,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			provider := strings.ToLower(args[0])
			if !contains(calendarProviders, provider) {
				return fmt.Errorf("unknown provider %q", args[0])
			}
			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			sync := !noSync
			integration, err := rt.api.CalendarIntegrations().Create(cmd.Context(), b.ID, client.CreateIntegrationRequest{
				Provider:    provider,
				CalendarID:  optional(calendarID),
				SyncEnabled: &sync,
			})
			if err != nil {
				return fmt.Errorf("failed to connect %s: %w", provider, err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), integration)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rt.t("integrations.connectedToast"), integration.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "calendar to sync from")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "connect with sync turned off")

	return cmd
}

func newIntegrationsSyncCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "sync <id>",
		Short: "Turn calendar sync on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			if _, err := requireBusiness(cmd.Context()); err != nil {
				return err
			}

			enabled := !off
			integration, err := rt.api.CalendarIntegrations().Update(cmd.Context(), args[0], client.IntegrationPatch{SyncEnabled: &enabled})
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("integration %s not found", args[0])
				}
				return fmt.Errorf("failed to update integration: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), integration)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.t("settings.saved"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "turn sync off")

	return cmd
}

func newIntegrationsDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <id>",
		Short: "Remove a calendar integration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			if _, err := requireBusiness(cmd.Context()); err != nil {
				return err
			}
			if err := rt.api.CalendarIntegrations().Delete(cmd.Context(), args[0]); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("integration %s not found", args[0])
				}
				return fmt.Errorf("failed to disconnect integration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.t("integrations.disconnectedToast"))
			return nil
		},
	}
}
