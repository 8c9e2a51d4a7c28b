// Account commands: register, login, logout, whoami, passwd, prefs, reset.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerPassword string
	registerEmail    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Example: `  jotter register --username alice --password secret123 --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := svc.Users.Register(registerUsername, registerPassword, registerEmail)
		if err != nil {
			return err
		}
		return printResult(map[string]string{"id": user.ID, "username": user.Username},
			fmt.Sprintf("registered %s (%s)", user.Username, user.ID))
	},
}

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := svc.Users.Login(loginUsername, loginPassword)
		if err != nil {
			return err
		}
		if err := saveSession(user.Token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return printResult(map[string]string{"user_id": user.ID},
			fmt.Sprintf("logged in as %s", user.Username))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err == nil {
			if err := svc.Users.Logout(user.ID); err != nil {
				return err
			}
		}
		// The local session file goes away even if the token was already stale.
		if err := clearSession(); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "ok"}, "logged out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		return printResult(map[string]string{
			"id": user.ID, "username": user.Username, "email": user.Email,
			"locale": user.Locale, "theme": user.Theme,
		}, fmt.Sprintf("%s (%s)", user.Username, user.ID))
	},
}

var passwdNew string

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		if err := svc.Users.ChangePassword(user.ID, passwdNew); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "ok"}, "password changed")
	},
}

var (
	prefsLocale string
	prefsTheme  string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Update locale and theme preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		locale, theme := prefsLocale, prefsTheme
		if locale == "" {
			locale = user.Locale
		}
		if theme == "" {
			theme = user.Theme
		}
		if err := svc.Users.UpdatePreferences(user.ID, locale, theme); err != nil {
			return err
		}
		return printResult(map[string]string{"locale": locale, "theme": theme},
			fmt.Sprintf("preferences set: locale=%s theme=%s", locale, theme))
	},
}

var (
	resetEmail    string
	resetToken    string
	resetPassword string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Request or redeem a password reset token",
	Long: `Reset with --email issues a token; reset with --token and --password
redeems one. Tokens are single use and expire after an hour.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		if resetEmail != "" {
			tok, err := svc.Users.RequestPasswordReset(resetEmail)
			if err != nil {
				return err
			}
			return printResult(map[string]string{"reset_token": tok.Token},
				fmt.Sprintf("reset token: %s", tok.Token))
		}
		if resetToken != "" {
			if err := svc.Users.ResetPassword(resetToken, resetPassword); err != nil {
				return err
			}
			return printResult(map[string]string{"status": "ok"}, "password reset")
		}
		return fmt.Errorf("either --email or --token is required")
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "account username (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email (required)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringVar(&loginUsername, "username", "", "account username (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (required)")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	passwdCmd.Flags().StringVar(&passwdNew, "new-password", "", "new password (required)")
	_ = passwdCmd.MarkFlagRequired("new-password")

	prefsCmd.Flags().StringVar(&prefsLocale, "locale", "", "language tag such as en or pt_BR")
	prefsCmd.Flags().StringVar(&prefsTheme, "theme", "", "light or dark")

	resetCmd.Flags().StringVar(&resetEmail, "email", "", "account email to issue a token for")
	resetCmd.Flags().StringVar(&resetToken, "token", "", "reset token to redeem")
	resetCmd.Flags().StringVar(&resetPassword, "password", "", "new password when redeeming")
}
