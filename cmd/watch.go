package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/logging"
	"github.com/juststeveking/spacecount/internal/monitor"
	"github.com/juststeveking/spacecount/internal/notify"
	"github.com/juststeveking/spacecount/internal/tui"
)

var notifyFlag bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the terminal dashboard",
	Long: `Show the crew currently in space, the ISS position and the status of
every upstream API, refreshed on the configured interval.

Keys: r refresh, n add probe, enter probe details, q quit.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(logging.FormatText)
	if err != nil {
		return err
	}
	defer a.Close()

	// logs would tear the alt screen
	a.logger.SetOutput(io.Discard)

	editable, err := config.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	poller := monitor.NewPoller(a.monitor, a.people, a.iss, a.cfg.RefreshIntervalDuration())
	notifier := notify.NewNotifier(a.cfg.Notifications || notifyFlag)
	poller.OnChange(notifier.NotifyStatusChange)

	go poller.Start(ctx)

	model := tui.NewModel(poller, a.monitor, editable, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&notifyFlag, "notify", false, "send desktop notifications when overall health changes")
	rootCmd.Flags().BoolVar(&notifyFlag, "notify", false, "send desktop notifications when overall health changes")
	rootCmd.AddCommand(watchCmd)
}
