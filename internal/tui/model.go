package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/monitor"
)

// Model represents the TUI application state
type Model struct {
	poller  *monitor.Poller
	monitor *monitor.Monitor
	cfg     *config.Config
	cancel  func()

	snapshot      *monitor.Snapshot
	refreshing    bool
	spinner       spinner.Model
	width         int
	height        int
	lastUpdate    time.Time
	quitting      bool
	selectedIndex int
	showDetail    bool
	flash         string
	flashTime     time.Time

	// Form state
	form     *huh.Form
	showForm bool
	formData *FormData

	// save persists an added probe; replaced in tests
	save func(cfg *config.Config) error
}

// FormData holds the data for the add probe form
type FormData struct {
	Name string
	URL  string
}

// NewModel creates a new TUI model. cfg is the editable config (no env
// overrides) that new probes are saved into.
func NewModel(p *monitor.Poller, m *monitor.Monitor, cfg *config.Config, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(colorChecking)

	return Model{
		poller:     p,
		monitor:    m,
		cfg:        cfg,
		cancel:     cancel,
		spinner:    s,
		refreshing: true,
		lastUpdate: time.Now(),
		save:       config.SaveConfig,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(m.poller),
		m.spinner.Tick,
		doTick(),
	)
}

// snapshotMsg wraps a poll round for Bubble Tea
type snapshotMsg monitor.Snapshot

// pollerStoppedMsg is sent once the snapshot channel is closed
type pollerStoppedMsg struct{}

// waitForSnapshot listens for poll rounds
func waitForSnapshot(p *monitor.Poller) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-p.Snapshots()
		if !ok {
			return pollerStoppedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// tickMsg is sent on every tick
type tickMsg time.Time

// doTick returns a command that waits for the next tick
func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
