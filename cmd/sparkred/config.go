package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long:  "Writes the default config.toml to path, or to the XDG config directory when no path is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configTestCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	err := config.WriteDefault(path, force)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	_, _ = fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(cmd, configErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cmd, cfg)
	_, _ = fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(cmd *cobra.Command, e *config.ConfigError) {
	out := cmd.OutOrStdout()
	if len(e.Missing) > 0 {
		_, _ = fmt.Fprintln(out, "Missing environment variables:")
		for _, m := range e.Missing {
			_, _ = fmt.Fprintf(out, "  - %s\n", m)
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(e.Errors) > 0 {
		_, _ = fmt.Fprintln(out, "Validation errors:")
		for _, fe := range e.Errors {
			_, _ = fmt.Fprintf(out, "  - %-24s %s\n", fe.Field, fe.Message)
		}
		_, _ = fmt.Fprintln(out)
	}
}

func printConfigSummary(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Configuration Summary:")
	_, _ = fmt.Fprintf(out, "  Server:   %s (log: %s)\n", cfg.Server.Addr(), cfg.Server.LogLevel)

	tmdb := "not set (searches will report a configuration error)"
	if cfg.TMDB.APIKey != "" {
		tmdb = "set"
	}
	_, _ = fmt.Fprintf(out, "  TMDB key: %s\n", tmdb)

	switch {
	case cfg.Auth.RequireSession:
		_, _ = fmt.Fprintf(out, "  Auth:     %s (sessions required)\n", cfg.Auth.URL)
	case cfg.Auth.Enabled():
		_, _ = fmt.Fprintf(out, "  Auth:     %s\n", cfg.Auth.URL)
	default:
		_, _ = fmt.Fprintln(out, "  Auth:     disabled")
	}

	_, _ = fmt.Fprintf(out, "  Storage:  %s (%s)\n", cfg.Storage.Driver, cfg.Storage.Path)
	_, _ = fmt.Fprintf(out, "  Client:   %s\n", cfg.Client.ServerURL)
}
