package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
)

var probeListCmd = &cobra.Command{
	Use:   "probe:list",
	Short: "List all health probes",
	Long:  `Display all upstreams currently probed by the health check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(cfg.Health.Probes) == 0 {
			fmt.Println("No probes configured yet.")
			fmt.Println("\nAdd a probe with:")
			fmt.Println("  spacecount probe:add --name <name> --url <url>")
			return nil
		}

		fmt.Printf("Health probes (%d), timeout %s, slow above %s:\n\n",
			len(cfg.Health.Probes), cfg.Health.Timeout, cfg.Health.SlowThreshold)

		for _, probe := range cfg.Health.Probes {
			fmt.Printf("  • %s\n", probe.Name)
			fmt.Printf("    URL: %s\n\n", probe.URL)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeListCmd)
}
