package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Inventory reconciliation and staff roles (admin role)",
}

var discrepanciesCmd = &cobra.Command{
	Use:   "discrepancies",
	Short: "List inventory discrepancies, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := httpClient.Discrepancies(ctx, all)
		if err != nil {
			return fmt.Errorf("failed to list discrepancies: %w", err)
		}
		if res.Total == 0 {
			fmt.Println("✓ No discrepancies")
			return nil
		}
		for _, d := range res.Items {
			state := "open"
			if d.Resolved {
				state = "resolved"
			}
			fmt.Printf("#%d %s loan %d book %d delta %+d [%s] %s\n",
				d.ID, d.Operation, d.LoanID, d.BookID, d.Delta, state, d.Detail)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [discrepancy_id]",
	Short: "Close a discrepancy, optionally applying its delta",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		apply, _ := cmd.Flags().GetBool("apply")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		d, err := httpClient.ResolveDiscrepancy(ctx, ids[0], apply)
		if err != nil {
			return fmt.Errorf("failed to resolve discrepancy: %w", err)
		}
		if apply {
			fmt.Printf("✅ Discrepancy %d resolved, book %d adjusted by %+d\n", d.ID, d.BookID, d.Delta)
		} else {
			fmt.Printf("✅ Discrepancy %d resolved\n", d.ID)
		}
		return nil
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role [user_id] [librarian|admin]",
	Short: "Change a staff account's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		user, err := httpClient.SetRole(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set role: %w", err)
		}
		fmt.Printf("✅ %s is now %s\n", user.Email, user.Role)
		return nil
	},
}

func init() {
	adminCmd.AddCommand(discrepanciesCmd, resolveCmd, setRoleCmd)

	discrepanciesCmd.Flags().Bool("all", false, "include resolved entries")
	resolveCmd.Flags().Bool("apply", false, "add the pending delta to the book's quantity")
}
