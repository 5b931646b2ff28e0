package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/logging"
	"github.com/juststeveking/spacecount/internal/monitor"
)

var healthJSON bool

var healthCheckCmd = &cobra.Command{
	Use:   "health:check",
	Short: "Probe every upstream once and print the report",
	Long: `Run one round of health probes. Exits with status 1 when the overall
status is down, so it can be used from cron or a CI job.

Example:
  spacecount health:check
  spacecount health:check --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.FormatText)
		if err != nil {
			return err
		}
		defer a.Close()

		report := a.monitor.CheckAll(context.Background())

		if healthJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printReport(cmd, report)
		}

		if report.Overall == monitor.OverallDown {
			return fmt.Errorf("overall status is %s", report.Overall)
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, report monitor.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Overall: %s (HTTP %d)\n\n", report.Overall, report.StatusCode())

	for _, api := range report.APIs {
		icon := "✓"
		switch api.Status {
		case monitor.StatusSlow:
			icon = "◐"
		case monitor.StatusOffline:
			icon = "✗"
		}
		fmt.Fprintf(out, "  %s %s\n", icon, api.Name)
		fmt.Fprintf(out, "    %s, %dms\n", api.Status, api.ResponseTime.Milliseconds())
		if api.Error != "" {
			fmt.Fprintf(out, "    error: %s\n", api.Error)
		}
	}
}

func init() {
	healthCheckCmd.Flags().BoolVar(&healthJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(healthCheckCmd)
}
