package command

// root.go defines the root command for libraryctl and its global flags.

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"libraryhub/cmd/cli/authentication"
	"libraryhub/cmd/cli/command/client"
)

var (
	apiURL  string        // API server URL
	timeout time.Duration // per-command request budget
)

var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "libraryctl - libraryhub front desk client",
	Long: `libraryctl lets librarians work the libraryhub API from a terminal:
- log in and keep the session in the OS keyring
- add books and register readers
- serve and return loans, list what a reader holds
- review and resolve inventory discrepancies (admins)

Use "libraryctl command --help" to see the flags of each command.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("LIBRARYHUB_API", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, bookCmd, readerCmd, libraryCmd, adminCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// GetAuthenticatedClient returns a client carrying the stored access token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, fmt.Errorf("not logged in, run \"libraryctl auth login\" first: %w", err)
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}
