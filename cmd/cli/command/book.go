package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"libraryhub/cmd/cli/command/client"
	"libraryhub/internal/microservices/http-api/dto"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Browse and manage the catalogue",
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books (no login needed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := client.NewHTTPClient(apiURL).ListBooks(ctx, page, size)
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}

		fmt.Printf("📚 Books (page %d, %d total)\n", res.Page, res.Total)
		fmt.Println("─────────────────────────────────────────────────────────")
		for _, b := range res.Items {
			fmt.Printf("%d. %s by %s, %d available\n", b.ID, b.Title, b.Author, b.Quantity)
		}
		return nil
	},
}

var bookShowCmd = &cobra.Command{
	Use:   "show [book_id]",
	Short: "Show a book with its loan history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		b, err := httpClient.GetBook(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch book: %w", err)
		}

		fmt.Printf("%s by %s (ID: %d)\n", b.Title, b.Author, b.ID)
		if b.ISBN != nil {
			fmt.Printf("   ISBN: %s\n", *b.ISBN)
		}
		fmt.Printf("   Available: %d\n", b.Quantity)
		for _, l := range b.Loans {
			printLoan(l)
		}
		return nil
	},
}

var bookAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.CreateBookRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Author, _ = cmd.Flags().GetString("author")
		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			req.PublishedAt = &year
		}
		if cmd.Flags().Changed("isbn") {
			isbn, _ := cmd.Flags().GetString("isbn")
			req.ISBN = &isbn
		}
		if cmd.Flags().Changed("quantity") {
			qty, _ := cmd.Flags().GetInt("quantity")
			req.Quantity = &qty
		}

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		b, err := httpClient.CreateBook(ctx, &req)
		if err != nil {
			return fmt.Errorf("failed to add book: %w", err)
		}
		fmt.Printf("✅ Added %q (ID: %d), %d copies\n", b.Title, b.ID, b.Quantity)
		return nil
	},
}

var bookRemoveCmd = &cobra.Command{
	Use:   "remove [book_id]",
	Short: "Remove a book and its loan history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := httpClient.DeleteBook(ctx, id); err != nil {
			return fmt.Errorf("failed to remove book: %w", err)
		}
		fmt.Printf("✅ Removed book (ID: %d)\n", id)
		return nil
	},
}

func init() {
	bookCmd.AddCommand(bookListCmd, bookShowCmd, bookAddCmd, bookRemoveCmd)

	bookListCmd.Flags().Int("page", 1, "page number")
	bookListCmd.Flags().Int("size", 10, "page size")

	bookAddCmd.Flags().StringP("title", "t", "", "title")
	bookAddCmd.Flags().StringP("author", "a", "", "author")
	bookAddCmd.Flags().Int("year", 0, "publication year")
	bookAddCmd.Flags().String("isbn", "", "ISBN")
	bookAddCmd.Flags().IntP("quantity", "q", 1, "copies on the shelf")
	bookAddCmd.MarkFlagRequired("title")
	bookAddCmd.MarkFlagRequired("author")
}

func printLoan(l dto.LoanResponse) {
	status := "on loan"
	if l.ReturnDate != nil {
		status = "returned " + l.ReturnDate.Format("2006-01-02 15:04")
	}
	fmt.Printf("   loan %d: reader %d, book %d, borrowed %s, %s\n",
		l.ID, l.ReaderID, l.BookID, l.BorrowDate.Format("2006-01-02 15:04"), status)
}
