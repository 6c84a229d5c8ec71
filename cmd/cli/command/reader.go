package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"libraryhub/internal/microservices/http-api/dto"
)

var readerCmd = &cobra.Command{
	Use:   "reader",
	Short: "Register and inspect readers",
}

var readerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a reader",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.ReaderRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		r, err := httpClient.CreateReader(ctx, &req)
		if err != nil {
			return fmt.Errorf("failed to register reader: %w", err)
		}
		fmt.Printf("✅ Registered %s <%s> (ID: %d)\n", r.Name, r.Email, r.ID)
		return nil
	},
}

var readerShowCmd = &cobra.Command{
	Use:   "show [reader_id]",
	Short: "Show a reader with loans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid reader ID: %w", err)
		}
		active, _ := cmd.Flags().GetBool("active")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		r, err := httpClient.GetReader(ctx, id, active)
		if err != nil {
			return fmt.Errorf("failed to fetch reader: %w", err)
		}

		fmt.Printf("%s <%s> (ID: %d)\n", r.Name, r.Email, r.ID)
		for _, l := range r.Loans {
			printLoan(l)
		}
		return nil
	},
}

func init() {
	readerCmd.AddCommand(readerAddCmd, readerShowCmd)

	readerAddCmd.Flags().StringP("name", "n", "", "full name")
	readerAddCmd.Flags().StringP("email", "e", "", "email address")
	readerAddCmd.MarkFlagRequired("name")
	readerAddCmd.MarkFlagRequired("email")

	readerShowCmd.Flags().Bool("active", false, "only loans not yet returned")
}
