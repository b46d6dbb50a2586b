// Command portfolio serves the portfolio site and manages its data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// configFile is set by the --config flag.
	configFile string

	// settings is loaded once by PersistentPreRunE for every subcommand.
	settings Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "portfolio - a personal portfolio site built with Go, Echo, and templ",
	Long: `portfolio serves public project and blog pages plus the JSON API used by
the admin panel. Configuration comes from the environment (a .env file is
loaded when present) and an optional YAML file given with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		s, err := loadSettings(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		settings = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (environment variables override it)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the portfolio version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "portfolio", version)
	},
}
