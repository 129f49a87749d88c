package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

type statusSummary struct {
	Server       string `json:"server"`
	API          string `json:"api"`
	SignedIn     bool   `json:"signed_in"`
	Email        string `json:"email,omitempty"`
	Business     string `json:"business,omitempty"`
	Plan         string `json:"plan,omitempty"`
	SMSUsed      int    `json:"sms_used"`
	SMSLimit     int    `json:"sms_limit"`
	Upcoming     int    `json:"upcoming"`
	NextClient   string `json:"next_client,omitempty"`
	NextStart    string `json:"next_start,omitempty"`
	Integrations int    `json:"integrations"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a summary of the service and your business",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())
			ctx := cmd.Context()

			summary := statusSummary{Server: rt.api.BaseURL(), API: "ok"}
			if health, err := rt.api.Health(ctx); err != nil {
				summary.API = "unreachable (" + client.KindOf(err).String() + ")"
			} else if health.Status != "" {
				summary.API = health.Status
			}

			rt.store.Initialize(ctx)
			st := rt.store.State()
			summary.SignedIn = st.Authenticated()
			if st.User != nil {
				summary.Email = st.User.Email
			}
			if st.Subscription != nil {
				summary.Plan = st.Subscription.Plan
				summary.SMSUsed = st.Subscription.SMSUsed
				summary.SMSLimit = st.Subscription.SMSLimit
			}

			var loc *time.Location
			if b := st.Business; b != nil {
				summary.Business = b.Name
				loc = businessLoc(b)

				now := time.Now()
				upcoming, err := rt.api.Appointments().List(ctx, b.ID, &client.AppointmentListOptions{From: &now})
				if err != nil {
					rt.log.WarnWithErr(err, "Failed to list upcoming appointments")
				}
				for _, a := range upcoming {
					if a.Status == "cancelled" {
						continue
					}
					if summary.Upcoming == 0 {
						summary.NextClient = a.ClientName
						summary.NextStart = a.StartTime.Format(time.RFC3339)
					}
					summary.Upcoming++
				}

				integrations, err := rt.api.CalendarIntegrations().List(ctx, b.ID)
				if err != nil {
					rt.log.WarnWithErr(err, "Failed to list integrations")
				}
				summary.Integrations = len(integrations)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), summary)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ReminderFlow")
			fmt.Fprintln(w, strings.Repeat("=", 40))
			fmt.Fprintf(w, "  Server:        %s (%s)\n", summary.Server, summary.API)
			if !summary.SignedIn {
				fmt.Fprintln(w, "  Session:       not signed in")
				return nil
			}
			fmt.Fprintf(w, "  Session:       %s\n", summary.Email)
			if summary.Business == "" {
				return nil
			}
			fmt.Fprintf(w, "  Business:      %s\n", summary.Business)
			if summary.Plan != "" {
				fmt.Fprintf(w, "  Plan:          %s (%d/%d SMS)\n", summary.Plan, summary.SMSUsed, summary.SMSLimit)
			}
			fmt.Fprintf(w, "  Upcoming:      %d appointments", summary.Upcoming)
			if summary.NextClient != "" {
				next, _ := time.Parse(time.RFC3339, summary.NextStart)
				fmt.Fprintf(w, " (next: %s at %s)", summary.NextClient, formatTime(next, loc))
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Calendars:     %d connected\n", summary.Integrations)
			return nil
		},
	}
}
