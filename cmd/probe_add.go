package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
)

var (
	probeName string
	probeURL  string
)

var probeAddCmd = &cobra.Command{
	Use:   "probe:add",
	Short: "Add an upstream to the health check",
	Long: `Add a new health probe to your spacecount configuration.

Example:
  spacecount probe:add --name "ISS Mirror" --url https://iss.example.com/now.json
  spacecount probe:add -n people-mirror -u '${MIRROR_HOST}/astros.json'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if probeName == "" {
			return fmt.Errorf("probe name is required (--name)")
		}
		if probeURL == "" {
			return fmt.Errorf("probe URL is required (--url)")
		}

		// edit the file as written, without env overrides baked in
		cfg, err := config.LoadRaw()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.AddProbe(config.Probe{Name: probeName, URL: probeURL}); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}

		configPath, _ := config.GetConfigPath()
		fmt.Printf("✓ Added probe '%s' to %s\n", probeName, configPath)

		return nil
	},
}

func init() {
	probeAddCmd.Flags().StringVarP(&probeName, "name", "n", "", "probe name (required)")
	probeAddCmd.Flags().StringVarP(&probeURL, "url", "u", "", "probe URL (required)")

	probeAddCmd.MarkFlagRequired("name")
	probeAddCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(probeAddCmd)
}
