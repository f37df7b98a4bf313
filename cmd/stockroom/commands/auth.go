package commands

import (
	"context"
	"errors"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/session"
	"github.com/spf13/cobra"
)

var (
	// Auth flags
	username string
	email    string
	password string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long: `Log in and store the session for later commands.

Missing credentials are asked for on the terminal.

Examples:
  stockroom login
  stockroom login -u alice -p secret123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context())
	},
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister(cmd.Context())
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		if err := e.session.Invalidate(session.ReasonLogout); err != nil {
			return err
		}
		output.Success("Logged out")
		return nil
	},
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		state := struct {
			LoggedIn    bool   `json:"logged_in"`
			APIURL      string `json:"api_url"`
			SessionFile string `json:"session_file"`
		}{e.session.Active(), e.client.BaseURL(), e.cfg.SessionFile}

		if jsonOutput {
			return output.JSON(state)
		}
		if state.LoggedIn {
			output.Success("Logged in")
		} else {
			output.Warning("Not logged in")
		}
		output.Muted("API:     %s", state.APIURL)
		output.Muted("Session: %s", state.SessionFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password")

	registerCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	registerCmd.Flags().StringVar(&email, "email", "", "Email address")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "Password")
}

func runLogin(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}

	form := forms.Login{Username: username, Password: password}
	if form.Username == "" {
		if form.Username, err = ask("Username", ""); err != nil {
			return err
		}
	}
	if form.Password == "" {
		if form.Password, err = ask("Password", ""); err != nil {
			return err
		}
	}
	if err := form.Validate(); err != nil {
		return err
	}

	tokens, err := e.client.Login(ctx, form.Credentials())
	if err != nil {
		return errors.New(forms.LoginFailure(err))
	}
	if err := e.session.Start(tokens); err != nil {
		return err
	}

	output.Success("Logged in as %s", form.Credentials().Username)
	return nil
}

func runRegister(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}

	form := forms.Register{Username: username, Email: email, Password: password}
	if form.Username == "" {
		if form.Username, err = ask("Username", ""); err != nil {
			return err
		}
	}
	if form.Email == "" {
		if form.Email, err = ask("Email", ""); err != nil {
			return err
		}
	}
	if form.Password == "" {
		if form.Password, err = ask("Password", ""); err != nil {
			return err
		}
	}
	if form.ConfirmPassword, err = ask("Confirm password", ""); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	if err := e.client.Register(ctx, form.Registration()); err != nil {
		return errors.New(forms.RegisterFailure(err))
	}

	output.Success("Registration successful! Please log in.")
	return nil
}
