package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
)

var (
	forceInit       bool
	interactiveInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize spacecount configuration",
	Long: `Create a new spacecount configuration file at ~/.config/spacecount/config.yml
with sensible defaults. Use --interactive to pick upstream URLs and cache
lifetimes from a form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactiveInit {
			if err := config.InitConfig(forceInit); err != nil {
				return err
			}
		} else {
			cfg := config.Default()
			strict := !cfg.People.DegradeSilently
			if err := initForm(cfg, &strict).Run(); err != nil {
				return err
			}
			cfg.People.DegradeSilently = !strict
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.InitConfig(forceInit); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
		}

		configPath, _ := config.GetConfigPath()

		if forceInit {
			fmt.Printf("✓ Configuration reset at %s\n", configPath)
		} else {
			fmt.Printf("✓ Configuration initialized at %s\n", configPath)
		}

		fmt.Println("\nStart the API or the dashboard with:")
		fmt.Println("  spacecount serve")
		fmt.Println("  spacecount watch")

		return nil
	},
}

func initForm(cfg *config.Config, strictRoster *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Value(&cfg.Listen),
			huh.NewInput().
				Title("People in space API").
				Value(&cfg.People.URL),
			huh.NewInput().
				Title("Roster cache TTL").
				Description("Go duration, e.g. 5m").
				Value(&cfg.People.TTL),
			huh.NewInput().
				Title("ISS position API").
				Value(&cfg.ISS.URL),
			huh.NewInput().
				Title("Position cache TTL").
				Value(&cfg.ISS.TTL),
		).Title("Upstreams"),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Answer 503 when the roster falls back to static data?").
				Affirmative("Yes").
				Negative("No, degrade silently").
				Value(strictRoster),
			huh.NewConfirm().
				Title("Enable the upstream circuit breaker?").
				Value(&cfg.CircuitBreaker.Enabled),
			huh.NewConfirm().
				Title("Desktop notifications on health changes?").
				Value(&cfg.Notifications),
		).Title("Behaviour"),
	).WithTheme(huh.ThemeCatppuccin())
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite existing configuration")
	initCmd.Flags().BoolVarP(&interactiveInit, "interactive", "i", false, "choose settings from a form")
	rootCmd.AddCommand(initCmd)
}
