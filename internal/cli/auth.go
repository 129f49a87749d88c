package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/forms"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			if email == "" {
				email = promptInput(cmd, "Email: ")
			}
			if password == "" {
				password = promptPassword(cmd, "Password: ")
			}

			errs, err := rt.flow.SignIn(cmd.Context(), forms.LoginForm{Email: email, Password: password})
			if err != nil {
				return formError(cmd.ErrOrStderr(), errs, err, "sign in failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", strings.TrimSpace(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var email, password, confirm, businessName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and its business",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			if businessName == "" {
				businessName = promptInput(cmd, "Business name: ")
			}
			if email == "" {
				email = promptInput(cmd, "Email: ")
			}
			if password == "" {
				password = promptPassword(cmd, "Password: ")
				confirm = promptPassword(cmd, "Confirm password: ")
			} else if confirm == "" {
				confirm = password
			}

			errs, err := rt.flow.Register(cmd.Context(), forms.RegisterForm{
				BusinessName:    businessName,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return formError(cmd.ErrOrStderr(), errs, err, "registration failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Signed in as %s\n", strings.TrimSpace(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&businessName, "business", "", "business name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "password confirmation (defaults to --password)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			// the local session is cleared even when the server is unreachable
			if err := rt.flow.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}
			return nil
		},
	}
}

type authStatus struct {
	SignedIn bool   `json:"signed_in"`
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider,omitempty"`
	Business string `json:"business,omitempty"`
	Plan     string `json:"plan,omitempty"`
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.store.Initialize(cmd.Context())
			st := rt.store.State()

			status := authStatus{
				SignedIn: st.Authenticated(),
				Theme:    string(st.Theme),
				Language: rt.prefs.Language(),
			}
			if st.User != nil {
				status.Email = st.User.Email
				status.Provider = st.User.Provider
			}
			if st.Business != nil {
				status.Business = st.Business.Name
			}
			if st.Subscription != nil {
				status.Plan = st.Subscription.Plan
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), status)
			}

			w := cmd.OutOrStdout()
			if !status.SignedIn {
				fmt.Fprintln(w, "Not signed in")
				return nil
			}
			fmt.Fprintf(w, "Email:    %s\n", status.Email)
			fmt.Fprintf(w, "Provider: %s\n", status.Provider)
			if status.Business != "" {
				fmt.Fprintf(w, "Business: %s\n", status.Business)
			}
			if status.Plan != "" {
				fmt.Fprintf(w, "Plan:     %s\n", status.Plan)
			}
			fmt.Fprintf(w, "Theme:    %s\n", status.Theme)
			fmt.Fprintf(w, "Language: %s\n", status.Language)
			return nil
		},
	}
}

// formError prints per-field validation messages; other errors were already
// posted as toasts
func formError(w io.Writer, errs forms.Errors, err error, msg string) error {
	if !errors.Is(err, authflow.ErrInvalidForm) {
		return fmt.Errorf("%s: %w", msg, err)
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", field, errs[field])
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func promptInput(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptInput(cmd, "")
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return ""
	}
	return string(password)
}
