package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "spacecount",
	Short: "People in space, ISS position and upstream health",
	Long: `Spacecount aggregates the public people-in-space and ISS position APIs.
It caches them, falls back to static or simulated data when they are
unreachable, and reports the health of every upstream it depends on.

Run 'spacecount serve' for the HTTP API or 'spacecount watch' for the
terminal dashboard.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPath != "" {
			os.Setenv("SPACECOUNT_CONFIG", configPath)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/spacecount/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Version = version
}
