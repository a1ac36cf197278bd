package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/auth"
)

var authEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the identity provider",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (prompted when omitted)")
	}
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

// credentials reads the email (unless given by flag) and password from in,
// one per line.
func credentials(in io.Reader, out io.Writer, email string) (string, string, error) {
	r := bufio.NewReader(in)
	if email == "" {
		_, _ = fmt.Fprint(out, "Email: ")
		line, err := readLine(r)
		if err != nil {
			return "", "", err
		}
		email = line
	}
	_, _ = fmt.Fprint(out, "Password: ")
	password, err := readLine(r)
	if err != nil {
		return "", "", err
	}

	if email == "" || password == "" {
		return "", "", errors.New("email and password are required")
	}
	return email, password, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// authFailure turns a provider rejection into its own message.
func authFailure(action string, err error) error {
	var perr *auth.Error
	if errors.As(err, &perr) {
		return fmt.Errorf("%s failed: %s", action, perr.Message)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.sessions == nil {
		return auth.ErrNotConfigured
	}

	email, password, err := credentials(cmd.InOrStdin(), cmd.ErrOrStderr(), authEmail)
	if err != nil {
		return err
	}

	s, err := a.sessions.SignIn(cmd.Context(), email, password)
	if err != nil {
		return authFailure("sign in", err)
	}

	if jsonOutput {
		return a.printJSON(s.User)
	}
	a.printf("Signed in as %s\n", s.User.Email)
	return nil
}

func runSignup(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.sessions == nil {
		return auth.ErrNotConfigured
	}

	email, password, err := credentials(cmd.InOrStdin(), cmd.ErrOrStderr(), authEmail)
	if err != nil {
		return err
	}

	s, err := a.sessions.SignUp(cmd.Context(), email, password)
	if err != nil {
		return authFailure("sign up", err)
	}

	if s == nil {
		if jsonOutput {
			return a.printJSON(map[string]any{"email": email, "confirmation_required": true})
		}
		a.printf("Account created. Check your email to confirm, then run 'sparkred login'.\n")
		return nil
	}
	if jsonOutput {
		return a.printJSON(s.User)
	}
	a.printf("Account created. Signed in as %s\n", s.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.sessions == nil {
		return auth.ErrNotConfigured
	}
	if err := a.sessions.SignOut(cmd.Context()); err != nil {
		return err
	}
	if !jsonOutput {
		a.printf("Signed out\n")
		return nil
	}
	return a.printJSON(map[string]bool{"signed_in": false})
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.sessions == nil {
		return auth.ErrNotConfigured
	}

	s, err := a.sessions.Require(cmd.Context())
	if errors.Is(err, auth.ErrSignInRequired) {
		if jsonOutput {
			return a.printJSON(map[string]bool{"signed_in": false})
		}
		a.printf("Not signed in\n")
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return a.printJSON(map[string]any{"signed_in": true, "user": s.User, "expires_at": s.ExpiresAt})
	}
	a.printf("Signed in as %s (session expires %s)\n", s.User.Email, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
