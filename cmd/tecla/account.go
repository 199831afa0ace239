package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/auth"
	"github.com/verte-zerg/tecla/internal/formui"
	"github.com/verte-zerg/tecla/internal/validate"
)

type loginFlags struct {
	email    string
	password string
	token    string
}

func newLoginCmd(global *globalFlags) *cobra.Command {
	flags := &loginFlags{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, global, flags)
		},
	}
	cmd.Flags().StringVar(&flags.email, "email", "", "account email")
	cmd.Flags().StringVar(&flags.password, "password", "", "account password (skips the form when set with --email)")
	cmd.Flags().StringVar(&flags.token, "token", "", "store an access token issued elsewhere instead of logging in")
	return cmd
}

func runLogin(cmd *cobra.Command, global *globalFlags, flags *loginFlags) error {
	a, err := openApp(cmd, global)
	if err != nil {
		return err
	}
	defer a.Close()
	if alreadyLoggedIn(cmd.OutOrStdout(), a) {
		return nil
	}
	if token := strings.TrimSpace(flags.token); token != "" {
		if err := a.auth.SetToken(cmd.Context(), token); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token stored. Log in with your email to load your profile.")
		return err
	}

	submit := func(ctx context.Context, creds api.Credentials) (string, error) {
		resp, err := a.client.Login(ctx, creds)
		if err != nil {
			return "", err
		}
		if err := a.auth.Login(ctx, resp.Token, resp.User); err != nil {
			return "", err
		}
		name := resp.User.Username
		if name == "" {
			name = creds.Email
		}
		return "Logged in as " + name + ".", nil
	}

	if flags.email != "" && flags.password != "" {
		creds := api.Credentials{Email: strings.TrimSpace(flags.email), Password: flags.password}
		if err := validate.Login(creds.Email, creds.Password).Err(); err != nil {
			return err
		}
		msg, err := submit(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("login failed: %s", api.Message(err))
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	}
	return runForm(cmd, formui.Login(cmd.Context(), flags.email, submit))
}

func newRegisterCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			if alreadyLoggedIn(cmd.OutOrStdout(), a) {
				return nil
			}
			form := formui.Register(cmd.Context(), a.client.Register)
			if err := runForm(cmd, form); err != nil || !form.Submitted() {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Run `tecla login` to start practicing.")
			return err
		},
	}
}

func newLogoutCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			if !a.auth.IsAuthenticated() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return err
			}
			a.auth.Logout(cmd.Context())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}

func newForgotPasswordCmd(global *globalFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password recovery code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			form := formui.Forgot(cmd.Context(), email, a.client.ForgotPassword)
			if err := runForm(cmd, form); err != nil || !form.Submitted() {
				return err
			}
			sent := form.Values()[validate.FieldEmail]
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Run `tecla reset-password --email %s` with the code you received.\n", sent)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newResetPasswordCmd(global *globalFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a recovery code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			return runForm(cmd, formui.Reset(cmd.Context(), email, a.client.ResetPassword))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newWhoamiCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireAuth(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			user, ok := a.auth.User()
			if !ok {
				_, err := fmt.Fprintln(out, "Logged in (no profile stored).")
				return err
			}
			if _, err := fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email); err != nil {
				return err
			}
			if p := user.Progress; p != nil {
				_, err := fmt.Fprintf(out, "Words: %d/%d correct, chars: %d correct, %d incorrect\n",
					p.TotalCorrectWords, p.TotalWords, p.TotalCorrectChars, p.TotalIncorrectChars)
				return err
			}
			return nil
		},
	}
}

func alreadyLoggedIn(w io.Writer, a *app) bool {
	sig := a.auth.RequireGuest()
	if sig.Redirect != auth.RouteHome {
		return false
	}
	name := "your account"
	if user, ok := a.auth.User(); ok && user.Username != "" {
		name = user.Username
	}
	_, _ = fmt.Fprintf(w, "Already logged in as %s. Run `tecla logout` first.\n", name)
	return true
}

// runForm runs a form program and prints the server message on success.
func runForm(cmd *cobra.Command, form *formui.Model) error {
	program := tea.NewProgram(form, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	if form.Submitted() && form.Message() != "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), form.Message())
		return err
	}
	return nil
}
