package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin2grow/storefront-go/internal/api"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			token, user, err := app.API.Login(cmd.Context(), api.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := app.Session.SignIn(token, user); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			// Sign-in flips the cart lifecycle; load the server cart now so
			// the next cart command starts from Ready.
			if err := app.Sync.HandleSessionChange(cmd.Context()); err != nil {
				app.Logger.Warn("cart load after login failed", "error", err)
			}

			cmd.Printf("Signed in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCommand(rt *runtime) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long:  "Create a new account. Registration does not sign you in; run login afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := rt.app.API.Register(cmd.Context(), api.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			cmd.Printf("Account created for %s. Run 'storefront login' to sign in.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the local session",
		Long:  "Sign out locally. No server call is made; the token is simply discarded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			app.Session.SignOut()
			app.Sync.Reset()

			cmd.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			if !app.Session.Authenticated() {
				cmd.Println("Not signed in.")
				return nil
			}

			user, ok := app.Session.User()
			if !ok {
				cmd.Println("Signed in (no profile stored).")
				return nil
			}
			cmd.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}
