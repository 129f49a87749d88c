package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var appointmentStatuses = []string{"scheduled", "confirmed", "cancelled", "completed", "no_show"}

func newAppointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Manage appointments",
	}

	cmd.AddCommand(newAppointmentsListCmd())
	cmd.AddCommand(newAppointmentsGetCmd())
	cmd.AddCommand(newAppointmentsCreateCmd())
	cmd.AddCommand(newAppointmentsUpdateCmd())
	cmd.AddCommand(newAppointmentsDeleteCmd())

	return cmd
}

func newAppointmentsListCmd() *cobra.Command {
	var status, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}
			loc := businessLoc(b)

			opts := &client.AppointmentListOptions{Status: status, Limit: limit}
			if status != "" && !contains(appointmentStatuses, status) {
				return fmt.Errorf("unknown status %q", status)
			}
			if from != "" {
				t, err := parseWhen(from, loc)
				if err != nil {
					return err
				}
				opts.From = &t
			}
			if to != "" {
				t, err := parseWhen(to, loc)
				if err != nil {
					return err
				}
				opts.To = &t
			}

			items, err := rt.api.Appointments().List(cmd.Context(), b.ID, opts)
			if err != nil {
				return fmt.Errorf("failed to list appointments: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No appointments found")
				return nil
			}

			table := NewTable(cmd.OutOrStdout(), "ID", "CLIENT", "SERVICE", "START", "STATUS")
			for _, a := range items {
				table.AddRow(a.ID, truncate(a.ClientName, 24), truncate(deref(a.ServiceName), 20), formatTime(a.StartTime, loc), formatStatus(a.Status))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&from, "from", "", "earliest start (YYYY-MM-DD [HH:MM] or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "latest start (YYYY-MM-DD [HH:MM] or RFC3339)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")

	return cmd
}

func newAppointmentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			a, err := rt.api.Appointments().Get(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("appointment %s not found", args[0])
				}
				return fmt.Errorf("failed to get appointment: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), a)
			}
			printAppointment(cmd, a, businessLoc(b))
			return nil
		},
	}
}

func newAppointmentsCreateCmd() *cobra.Command {
	var name, phone, email, service, start, notes string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("--client is required")
			}
			if duration <= 0 {
				return fmt.Errorf("--duration must be positive")
			}
			startAt, err := parseWhen(start, businessLoc(b))
			if err != nil {
				return err
			}

			a, err := rt.api.Appointments().Create(cmd.Context(), b.ID, client.CreateAppointmentRequest{
				ClientName:  name,
				ClientPhone: optional(phone),
				ClientEmail: optional(email),
				ServiceName: optional(service),
				StartTime:   startAt,
				EndTime:     startAt.Add(duration),
				Notes:       optional(notes),
			})
			if err != nil {
				return fmt.Errorf("failed to create appointment: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rt.t("appointments.created"), a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "client", "", "client name")
	cmd.Flags().StringVar(&phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&email, "email", "", "client email")
	cmd.Flags().StringVar(&service, "service", "", "service name")
	cmd.Flags().StringVar(&start, "start", "", "start time (YYYY-MM-DD HH:MM in the business timezone, or RFC3339)")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "appointment length")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newAppointmentsUpdateCmd() *cobra.Command {
	var name, phone, email, service, start, status, notes string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch client.AppointmentPatch
			if flags.Changed("client") {
				patch.ClientName = &name
			}
			if flags.Changed("phone") {
				patch.ClientPhone = &phone
			}
			if flags.Changed("email") {
				patch.ClientEmail = &email
			}
			if flags.Changed("service") {
				patch.ServiceName = &service
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if flags.Changed("status") {
				if !contains(appointmentStatuses, status) {
					return fmt.Errorf("unknown status %q", status)
				}
				patch.Status = &status
			}
			if flags.Changed("start") {
				startAt, err := parseWhen(start, businessLoc(b))
				if err != nil {
					return err
				}
				patch.StartTime = &startAt
				if flags.Changed("duration") {
					end := startAt.Add(duration)
					patch.EndTime = &end
				}
			} else if flags.Changed("duration") {
				return fmt.Errorf("--duration needs --start")
			}
			if patch == (client.AppointmentPatch{}) {
				return fmt.Errorf("nothing to update")
			}

			a, err := rt.api.Appointments().Update(cmd.Context(), args[0], patch)
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("appointment %s not found", args[0])
				}
				return fmt.Errorf("failed to update appointment: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), a)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.t("appointments.updated"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "client", "", "client name")
	cmd.Flags().StringVar(&phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&email, "email", "", "client email")
	cmd.Flags().StringVar(&service, "service", "", "service name")
	cmd.Flags().StringVar(&start, "start", "", "new start time")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "new length, applied from --start")
	cmd.Flags().StringVar(&status, "status", "", "scheduled, confirmed, cancelled, completed or no_show")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")

	return cmd
}

func newAppointmentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			if _, err := requireBusiness(cmd.Context()); err != nil {
				return err
			}
			if err := rt.api.Appointments().Delete(cmd.Context(), args[0]); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("appointment %s not found", args[0])
				}
				return fmt.Errorf("failed to delete appointment: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.t("appointments.deleted"))
			return nil
		},
	}
}

func printAppointment(cmd *cobra.Command, a *client.Appointment, loc *time.Location) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ID:       %s\n", a.ID)
	fmt.Fprintf(w, "Client:   %s\n", a.ClientName)
	fmt.Fprintf(w, "Phone:    %s\n", deref(a.ClientPhone))
	fmt.Fprintf(w, "Email:    %s\n", deref(a.ClientEmail))
	fmt.Fprintf(w, "Service:  %s\n", deref(a.ServiceName))
	fmt.Fprintf(w, "Start:    %s\n", formatTime(a.StartTime, loc))
	fmt.Fprintf(w, "End:      %s\n", formatTime(a.EndTime, loc))
	fmt.Fprintf(w, "Status:   %s\n", formatStatus(a.Status))
	if a.Notes != nil {
		fmt.Fprintf(w, "Notes:    %s\n", *a.Notes)
	}
}

// parseWhen accepts RFC3339 or a wall-clock date (and optional time) in loc
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD HH:MM or RFC3339", s)
}

func businessLoc(b *client.Business) *time.Location {
	if b == nil || b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
