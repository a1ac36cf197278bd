package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sparkred",
	Short: "Movie discovery from the terminal",
	Long: `sparkred - movie discovery from the terminal

Search movies, open their details and keep a list of favorites.
Favorites and your session are stored locally.

Run 'sparkredd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL (default from config, http://localhost:8484)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discovered)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("sparkred {{.Version}}\n")
}
