package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/internal/app/session"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Display preferences shared with the dashboard",
	}

	cmd.AddCommand(newPrefsThemeCmd())
	cmd.AddCommand(newPrefsLanguageCmd())

	return cmd
}

func newPrefsThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := rt.store.SetTheme(session.Theme(strings.ToLower(args[0]))); err != nil {
					return err
				}
			}
			st := rt.store.State()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", st.Theme, st.Mode)
			return nil
		},
	}
}

func newPrefsLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [code]",
		Short: "Show or set the display language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := rt.prefs.SetLanguage(strings.ToLower(args[0])); err != nil {
					return fmt.Errorf("%w (available: %s)", err, strings.Join(rt.catalog.Languages(), ", "))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.prefs.Language())
			return nil
		},
	}
}
