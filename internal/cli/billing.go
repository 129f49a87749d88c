package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Subscription and plans",
	}

	cmd.AddCommand(newBillingShowCmd())
	cmd.AddCommand(newBillingPlansCmd())
	cmd.AddCommand(newBillingChangeCmd())

	return cmd
}

func newBillingShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current plan and SMS usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			sub, err := rt.api.Subscriptions().Get(cmd.Context(), b.ID)
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("%s has no subscription", b.Name)
				}
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), sub)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Plan:     %s\n", sub.Plan)
			fmt.Fprintf(w, "Status:   %s\n", formatStatus(sub.Status))
			fmt.Fprintf(w, "SMS used: %d / %d\n", sub.SMSUsed, sub.SMSLimit)
			if sub.CurrentPeriodEnd != nil {
				fmt.Fprintf(w, "Renews:   %s\n", formatTime(*sub.CurrentPeriodEnd, businessLoc(b)))
			}
			return nil
		},
	}
}

func newBillingPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := rt.api.Plans().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), plans)
			}

			table := NewTable(cmd.OutOrStdout(), "ID", "NAME", "PRICE", "SMS", "FEATURES")
			for _, p := range plans {
				table.AddRow(p.ID, p.Name, fmt.Sprintf("$%d/mo", p.Price), fmt.Sprintf("%d", p.SMSLimit), truncate(strings.Join(p.Features, ", "), 50))
			}
			table.Render()
			return nil
		},
	}
}

func newBillingChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change <plan>",
		Short: "Switch to another plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer flushToasts(cmd.ErrOrStderr())

			b, err := requireBusiness(cmd.Context())
			if err != nil {
				return err
			}

			plans, err := rt.api.Plans().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}
			var plan *client.Plan
			for i := range plans {
				if plans[i].ID == args[0] {
					plan = &plans[i]
				}
			}
			if plan == nil {
				return fmt.Errorf("unknown plan %q", args[0])
			}

			sub, err := rt.api.Subscriptions().Get(cmd.Context(), b.ID)
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}
			updated, err := rt.api.Subscriptions().Update(cmd.Context(), sub.ID, client.SubscriptionPatch{Plan: &plan.ID})
			if err != nil {
				return fmt.Errorf("failed to change plan: %w", err)
			}
			rt.store.RefreshBusiness(cmd.Context())

			if !wantsTable() {
				return printOutput(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rt.t("billing.planChanged"), plan.Name)
			return nil
		},
	}
}
