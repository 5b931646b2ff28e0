package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/logging"
	"github.com/juststeveking/spacecount/internal/monitor"
)

var probeShowCmd = &cobra.Command{
	Use:   "probe:show <name>",
	Short: "Show a probe and check it once",
	Long: `Display the configuration of a single probe and run it once.

Example:
  spacecount probe:show "People in Space (open-notify)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.FormatText)
		if err != nil {
			return err
		}
		defer a.Close()

		var found *config.Probe
		for _, p := range a.cfg.Health.Probes {
			if p.Name == args[0] {
				found = &p
				break
			}
		}
		if found == nil {
			return fmt.Errorf("probe '%s' not found", args[0])
		}

		checker := monitor.NewHTTPChecker(a.probeClient, a.cfg.Health.TimeoutDuration(), a.cfg.Health.SlowThresholdDuration())
		result := checker.Check(context.Background(), *found)

		fmt.Printf("Probe: %s\n", found.Name)
		fmt.Println("─────────────────────────────────────")
		fmt.Printf("URL:            %s\n", found.URL)
		fmt.Printf("Timeout:        %s\n", a.cfg.Health.Timeout)
		fmt.Printf("Slow above:     %s\n", a.cfg.Health.SlowThreshold)
		fmt.Printf("Status:         %s\n", result.Status)
		fmt.Printf("Response time:  %dms\n", result.ResponseTime.Milliseconds())
		if result.Error != "" {
			fmt.Printf("Error:          %s\n", result.Error)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeShowCmd)
}
