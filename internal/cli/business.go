package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

func newBusinessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "business",
		Short: "Show and update your business profile",
	}

	cmd.AddCommand(newBusinessShowCmd())
	cmd.AddCommand(newBusinessUpdateCmd())

	return cmd
}

func newBusinessShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show business details",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), b)
			}
			printBusiness(cmd, b)
			return nil
		},
	}
}

func newBusinessUpdateCmd() *cobra.Command {
	var name, timezone, language, logoURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update business details",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			var patch client.BusinessPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("timezone") {
				if _, err := time.LoadLocation(timezone); err != nil {
					return fmt.Errorf("unknown timezone %q", timezone)
				}
				patch.Timezone = &timezone
			}
			if cmd.Flags().Changed("language") {
				patch.Language = &language
			}
			if cmd.Flags().Changed("logo-url") {
				patch.LogoURL = &logoURL
			}
			if patch == (client.BusinessPatch{}) {
				return fmt.Errorf("nothing to update")
			}

			updated, err := rt.api.Businesses().Update(cmd.Context(), b.ID, patch)
			if err != nil {
				return fmt.Errorf("failed to update business: %w", err)
			}
			rt.store.RefreshBusiness(cmd.Context())

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.t("settings.saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")
	cmd.Flags().StringVar(&language, "language", "", "reminder language")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "logo URL")

	return cmd
}

func printBusiness(cmd *cobra.Command, b *client.Business) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ID:       %s\n", b.ID)
	fmt.Fprintf(w, "Name:     %s\n", b.Name)
	fmt.Fprintf(w, "Timezone: %s\n", b.Timezone)
	fmt.Fprintf(w, "Language: %s\n", b.Language)
	fmt.Fprintf(w, "Logo:     %s\n", deref(b.LogoURL))
	fmt.Fprintf(w, "Created:  %s\n", b.CreatedAt.Format(time.RFC3339))

	st := rt.store.State()
	if rs := st.ReminderSettings; rs != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Reminders:")
		for _, iv := range rs.Intervals {
			fmt.Fprintf(w, "  %3dh before via %s\n", iv.Hours, iv.Channel)
		}
		fmt.Fprintf(w, "  sms=%t email=%t whatsapp=%t\n", rs.SMSEnabled, rs.EmailEnabled, rs.WhatsAppEnabled)
	}
}
