package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
)

var (
	forceRemove bool
)

var probeRemoveCmd = &cobra.Command{
	Use:   "probe:remove <name>",
	Short: "Remove a health probe",
	Long: `Remove a probe by name from your spacecount configuration.

Example:
  spacecount probe:remove "ISS Location Backup (open-notify)"
  spacecount probe:remove people-mirror --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.LoadRaw()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Confirm removal unless --force is used
		if !forceRemove {
			fmt.Printf("Remove probe '%s'? (y/N): ", name)
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return err
			}

			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := cfg.RemoveProbe(name); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}

		configPath, _ := config.GetConfigPath()
		fmt.Printf("✓ Removed probe '%s' from %s\n", name, configPath)

		return nil
	},
}

func init() {
	probeRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(probeRemoveCmd)
}
