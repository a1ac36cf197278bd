package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	status, err := a.api.Status(cmd.Context())
	if err != nil {
		return explain(err)
	}

	if jsonOutput {
		return a.printJSON(status)
	}

	a.printf("Server:   %s (%s, %s)\n", a.cfg.Client.ServerURL, status.Status, status.Version)
	a.printf("TMDB:     %s\n", configured(status.TMDB))
	a.printf("Sign-in:  %s\n", required(status.Auth))

	if a.sessions != nil {
		if s, ok := a.sessions.Current(); ok {
			a.printf("Session:  %s\n", s.User.Email)
		} else {
			a.printf("Session:  not signed in\n")
		}
	}
	a.printf("Favorites: %d\n", a.favorites.Len())
	return nil
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing API key"
}

func required(ok bool) string {
	if ok {
		return "required"
	}
	return "not required"
}
