package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/monitor"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Always update window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.showForm {
		return m.updateForm(msg)
	}

	// The detail view swallows every key except quit
	if m.showDetail {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc", "enter":
				m.showDetail = false
				return m, nil
			case "ctrl+c", "q":
			default:
				return m, nil
			}
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				m.poller.Refresh()
				return m, m.spinner.Tick
			}
		case "n":
			m.showForm = true
			m.initAddProbeForm()
			return m, m.form.Init()
		case "enter":
			if m.apiCount() > 0 {
				m.showDetail = true
			}
		case "left", "h", "up", "k", "shift+tab":
			m.moveSelection(-1)
		case "right", "l", "down", "j", "tab":
			m.moveSelection(1)
		}

	case snapshotMsg:
		snap := monitor.Snapshot(msg)
		m.snapshot = &snap
		m.refreshing = false
		m.lastUpdate = snap.TakenAt
		m.clampSelection()
		return m, waitForSnapshot(m.poller)

	case pollerStoppedMsg:
		m.refreshing = false
		return m, nil

	case spinner.TickMsg:
		if !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, doTick()
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.showForm = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		probe := config.Probe{
			Name: strings.TrimSpace(m.formData.Name),
			URL:  strings.TrimSpace(m.formData.URL),
		}
		if err := m.addProbe(probe); err != nil {
			m.setFlash("✗ " + err.Error())
		} else {
			m.setFlash(fmt.Sprintf("✓ Added probe '%s'", probe.Name))
			m.refreshing = true
			m.poller.Refresh()
			cmd = tea.Batch(cmd, m.spinner.Tick)
		}
		m.showForm = false
		m.form = nil
	case huh.StateAborted:
		m.showForm = false
		m.form = nil
	}

	return m, cmd
}

// addProbe saves the probe to the config file and starts checking it
func (m *Model) addProbe(probe config.Probe) error {
	if probe.Name == "" || probe.URL == "" {
		return fmt.Errorf("probe needs a name and url")
	}
	if err := m.cfg.AddProbe(probe); err != nil {
		return err
	}
	if err := m.save(m.cfg); err != nil {
		return err
	}
	m.monitor.AddProbe(probe)
	return nil
}

// initAddProbeForm initializes the form for adding a new probe
func (m *Model) initAddProbeForm() {
	m.formData = &FormData{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Probe Name").
				Value(&m.formData.Name),
			huh.NewInput().
				Title("Probe URL").
				Placeholder("https://api.open-notify.org/iss-now.json").
				Value(&m.formData.URL),
		).Title("Add Health Probe (Esc to cancel)"),
	).WithTheme(huh.ThemeCatppuccin()).WithWidth(80).WithShowHelp(true)
}

func (m *Model) setFlash(msg string) {
	m.flash = msg
	m.flashTime = time.Now()
}

func (m Model) apiCount() int {
	if m.snapshot == nil {
		return 0
	}
	return len(m.snapshot.Health.APIs)
}

// moveSelection moves the selected index with wrap-around
func (m *Model) moveSelection(delta int) {
	n := m.apiCount()
	if n == 0 {
		return
	}
	m.selectedIndex = (m.selectedIndex + delta) % n
	if m.selectedIndex < 0 {
		m.selectedIndex += n
	}
}

// clampSelection ensures selection stays within range
func (m *Model) clampSelection() {
	n := m.apiCount()
	if n == 0 || m.selectedIndex < 0 {
		m.selectedIndex = 0
		return
	}
	if m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
}
