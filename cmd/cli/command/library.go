package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Serve and return loans",
	Long:  `Lend a book to a reader, take it back, and list what a reader currently holds.`,
}

var libraryServeCmd = &cobra.Command{
	Use:   "serve [book_id] [reader_id]",
	Short: "Lend a book to a reader",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		loan, err := httpClient.Serve(ctx, ids[0], ids[1])
		if err != nil {
			return fmt.Errorf("could not serve book: %w", err)
		}
		fmt.Printf("✅ Loan %d opened: book %d to reader %d\n", loan.ID, loan.BookID, loan.ReaderID)
		if loan.Book != nil {
			fmt.Printf("   %d copies left\n", loan.Book.Quantity)
		}
		return nil
	},
}

var libraryReturnCmd = &cobra.Command{
	Use:   "return [loan_id]",
	Short: "Take a book back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		loan, err := httpClient.Return(ctx, ids[0])
		if err != nil {
			return fmt.Errorf("could not return loan: %w", err)
		}
		if loan.ReturnDate == nil {
			fmt.Printf("✅ Loan %d closed\n", loan.ID)
			return nil
		}
		fmt.Printf("✅ Loan %d closed at %s\n", loan.ID, loan.ReturnDate.Format("2006-01-02 15:04"))
		return nil
	},
}

var libraryInfoCmd = &cobra.Command{
	Use:   "info [reader_id]",
	Short: "List the books a reader holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := httpClient.Holdings(ctx, ids[0])
		if err != nil {
			return fmt.Errorf("failed to fetch holdings: %w", err)
		}
		if len(res.Books) == 0 {
			fmt.Printf("📚 Reader %d holds nothing\n", res.ReaderID)
			return nil
		}

		fmt.Printf("📚 Reader %d holds %d book(s)\n", res.ReaderID, len(res.Books))
		for i, b := range res.Books {
			fmt.Printf("%d. %s by %s (ID: %d)\n", i+1, b.Title, b.Author, b.ID)
		}
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(libraryServeCmd, libraryReturnCmd, libraryInfoCmd)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid ID %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
