package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicdesk/civicdesk/internal/api"
	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/tui"
	"github.com/civicdesk/civicdesk/internal/ux"
)

// authCmd groups the authentication subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with the municipal backend",
	Long: `Manage authentication with the municipal complaint backend.

Credentials are stored encrypted under the civicdesk home directory
(~/.civicdesk by default, CIVICDESK_HOME overrides it).`,
}

// authLoginCmd logs a user in
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as a citizen, admin, or super-admin",
	Long: `Log in to the municipal complaint backend.

The role selects the login route. Citizens log in with their phone number,
admins and super-admins with their email address. When --identifier or
--password is missing, an interactive prompt asks for them.

Examples:
  civicdesk auth login --identifier 9876543210 --password secret
  civicdesk auth login --role admin --identifier admin@city.gov --password secret
  civicdesk auth login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier, _ := cmd.Flags().GetString("identifier")
		password, _ := cmd.Flags().GetString("password")
		roleName, _ := cmd.Flags().GetString("role")

		app, err := newApp()
		if err != nil {
			return err
		}

		if roleName == "" {
			roleName = app.config.DefaultRole
		}
		role, ok := api.ParseRole(roleName)
		if !ok {
			return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("unknown role: %s", roleName)).
				WithSuggestion("Use one of: citizen, admin, super-admin")
		}

		if identifier == "" || password == "" {
			if err := tui.LoginForm(&identifier, &password); err != nil {
				return err
			}
		}

		profile, err := app.session.Login(cmd.Context(), identifier, password, role)
		if err != nil {
			return err
		}

		fmt.Println(ux.Success(fmt.Sprintf("Logged in as %s", profile.FullName)))
		fmt.Printf("Next: %s\n", ux.DashboardFor(profile.Role))
		return nil
	},
}

// authRegisterCmd registers a new citizen account
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new citizen account",
	Long: `Register a new citizen account with the municipal backend.

After registration you are logged in automatically. When any field is
missing from the flags, an interactive prompt asks for the rest.

Examples:
  civicdesk auth register --name "Asha Rao" --email asha@example.com --phone 9876543210 --password secret
  civicdesk auth register`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.RegisterRequest{}
		req.FullName, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.PhoneNumber, _ = cmd.Flags().GetString("phone")
		req.Password, _ = cmd.Flags().GetString("password")

		if req.FullName == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "" {
			if err := tui.RegisterForm(&req); err != nil {
				return err
			}
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		profile, err := app.session.Register(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Println(ux.Success(fmt.Sprintf("Registered %s", profile.FullName)))
		fmt.Println("You are now logged in.")
		return nil
	},
}

// authLogoutCmd clears stored credentials
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	Long: `Log out of the municipal backend.

Removes the stored token and profile from the encrypted credential store.
Logging out while already logged out is not an error.

Examples:
  civicdesk auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		app.session.Logout()
		fmt.Println(ux.Success("Logged out"))
		return nil
	},
}

// authStatusCmd shows the current session
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication status",
	Long: `Show whether a session exists and which user it belongs to.

The status is derived from the credential store, so a session revoked by
another process (for example after a rejected request) shows up here as
logged out.

Examples:
  civicdesk auth status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		user, ok := app.session.User()
		if !ok {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'civicdesk auth login' to authenticate.")
			return nil
		}

		fmt.Println(ux.Profile(user))
		return nil
	},
}

// authWhoamiCmd prints the logged-in user's name
var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		user, ok := app.session.User()
		if !ok {
			return errors.NewNotLoggedInError()
		}

		fmt.Printf("%s <%s> (%s)\n", user.FullName, user.Email, user.Role)
		return nil
	},
}

func init() {
	authLoginCmd.Flags().String("identifier", "", "phone number (citizen) or email (admin roles)")
	authLoginCmd.Flags().String("password", "", "account password")
	authLoginCmd.Flags().String("role", "", "login role: citizen, admin, or super-admin")

	authRegisterCmd.Flags().String("name", "", "full name")
	authRegisterCmd.Flags().String("email", "", "email address")
	authRegisterCmd.Flags().String("phone", "", "phone number")
	authRegisterCmd.Flags().String("password", "", "account password")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}
