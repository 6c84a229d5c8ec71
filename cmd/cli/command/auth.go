package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"libraryhub/cmd/cli/authentication"
	"libraryhub/cmd/cli/command/client"
	"libraryhub/internal/microservices/http-api/dto"
)

// auth.go handles register, login, refresh and logout.

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the libraryhub API server. Supports register, login, refresh and logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new librarian account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := client.NewHTTPClient(apiURL).Register(ctx, &req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println("✓ Registration successful! Please login to continue.")
		fmt.Printf("UserID: %s (%s)\n", resp.ID, resp.Role)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := client.NewHTTPClient(apiURL).Login(ctx, &req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveTokens(resp, req.Email); err != nil {
			return err
		}

		fmt.Println("✓ Successfully logged in!")
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the stored refresh token for a new session",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("no stored session: %w", err)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := client.NewHTTPClient(apiURL).Refresh(ctx, creds.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		resp.Role = creds.Role
		if err := saveTokens(resp, creds.Email); err != nil {
			return err
		}

		fmt.Println("✓ Session refreshed.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the refresh token and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			fmt.Println("✓ Already logged out.")
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := client.NewHTTPClient(apiURL).Revoke(ctx, creds.RefreshToken); err != nil {
			fmt.Println("warning: server-side revoke failed:", err)
		}
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("clear stored session: %w", err)
		}

		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, refreshCmd, logoutCmd)

	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account (min 8 characters)")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "Email address of the account")
	loginCmd.Flags().StringP("password", "p", "", "Password of the account")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}

func saveTokens(resp *dto.AuthResponse, email string) error {
	err := authentication.StoreTokens(&authentication.StoredCredentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        email,
		Role:         resp.Role,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	})
	if err != nil {
		return fmt.Errorf("store session in keyring: %w", err)
	}
	return nil
}
