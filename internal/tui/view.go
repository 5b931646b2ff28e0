package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/juststeveking/spacecount/internal/fetcher"
	"github.com/juststeveking/spacecount/internal/monitor"
	"github.com/juststeveking/spacecount/internal/space"
)

var (
	colorAccent    = lipgloss.Color("#04D9FF") // Neon Cyan
	colorHealthy   = lipgloss.Color("#00FF94") // Neon Green
	colorUnhealthy = lipgloss.Color("#FF0055") // Neon Red
	colorChecking  = lipgloss.Color("#FFD700") // Gold
	colorMuted     = lipgloss.Color("#565f89") // Muted Blue
	colorSubtle    = lipgloss.Color("#24283b") // Dark Blue
	colorCard      = lipgloss.Color("#16161e") // Very Dark Blue
	colorText      = lipgloss.Color("#c0caf5") // Light Blue/White

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1).
			MarginBottom(1)

	bigNumberStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	baseCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Background(colorCard).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	metadataStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorUnhealthy)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	secondaryStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.showForm {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(1, 2).
				Render(m.form.View()),
		)
	}

	width := m.width
	if width < 40 {
		width = 80
	}

	if m.showDetail && m.snapshot != nil {
		return m.renderDetail(width)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")

	if m.snapshot == nil {
		b.WriteString("\n")
		centerText := m.spinner.View() + " Contacting upstreams..."
		padding := (width - lipgloss.Width(centerText)) / 2
		if padding > 0 {
			b.WriteString(strings.Repeat(" ", padding))
		}
		b.WriteString(metadataStyle.Render(centerText))
		b.WriteString("\n")
	} else {
		cardWidth := (width - 4) / 2
		if cardWidth < 30 {
			cardWidth = width - 4
		}
		people := m.renderPeople(m.snapshot.People, cardWidth)
		iss := m.renderPosition(m.snapshot.Position, cardWidth)
		if cardWidth*2 <= width-4 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, people, iss))
		} else {
			b.WriteString(people + "\n" + iss)
		}
		b.WriteString("\n")

		b.WriteString(headerStyle.Render(fmt.Sprintf("Upstream APIs (%d)", len(m.snapshot.Health.APIs))))
		b.WriteString("\n")
		b.WriteString(m.renderAPIGrid(m.snapshot.Health.APIs, width))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter(width))
	b.WriteString("\n")
	return b.String()
}

// renderHeader shows the title on the left and the overall status on the right
func (m Model) renderHeader(width int) string {
	var b strings.Builder

	titleRendered := titleStyle.Render("SPACECOUNT")

	status := ""
	if m.refreshing {
		status = m.spinner.View() + " "
	}
	if m.snapshot != nil {
		overall := m.snapshot.Health.Overall
		status += lipgloss.NewStyle().Foreground(overallColor(overall)).Bold(true).
			Render(fmt.Sprintf("● %s", strings.ToUpper(string(overall))))
	}

	gap := width - lipgloss.Width(titleRendered) - lipgloss.Width(status) - 2
	if gap < 0 {
		gap = 0
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, titleRendered, strings.Repeat(" ", gap), status))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("━", width)))
	return b.String()
}

// renderPeople shows the crew count grouped by craft
func (m Model) renderPeople(out fetcher.Outcome[space.Roster], width int) string {
	var b strings.Builder

	b.WriteString(nameStyle.Render("People in space"))
	b.WriteString("\n")
	b.WriteString(bigNumberStyle.Render(fmt.Sprintf("%d", out.Value.Number)))
	b.WriteString("\n")

	crafts, byCraft := out.Value.Crafts()
	for _, craft := range crafts {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("%s: %d", craft, len(byCraft[craft]))))
		b.WriteString("\n")
	}
	b.WriteString(sourceLine(out.Source, out.FetchedAt))

	return baseCardStyle.
		Width(width).
		BorderForeground(sourceColor(out.Source)).
		Render(b.String())
}

// renderPosition shows the ISS coordinates and telemetry
func (m Model) renderPosition(out fetcher.Outcome[space.Position], width int) string {
	var b strings.Builder
	pos := out.Value

	b.WriteString(nameStyle.Render("ISS position"))
	b.WriteString("\n")
	b.WriteString(bigNumberStyle.Render(fmt.Sprintf("%s, %s", pos.ISSPosition.Latitude, pos.ISSPosition.Longitude)))
	b.WriteString("\n")

	var telemetry []string
	if pos.Altitude != nil {
		telemetry = append(telemetry, fmt.Sprintf("%.0f km", *pos.Altitude))
	}
	if pos.Velocity != nil {
		telemetry = append(telemetry, fmt.Sprintf("%.0f km/h", *pos.Velocity))
	}
	if pos.Visibility != nil {
		telemetry = append(telemetry, *pos.Visibility)
	}
	if len(telemetry) > 0 {
		b.WriteString(secondaryStyle.Render(strings.Join(telemetry, " • ")))
		b.WriteString("\n")
	}
	if pos.Message != "" && pos.Message != "success" {
		b.WriteString(metadataStyle.Render(pos.Message))
		b.WriteString("\n")
	}
	b.WriteString(sourceLine(out.Source, out.FetchedAt))

	return baseCardStyle.
		Width(width).
		BorderForeground(sourceColor(out.Source)).
		Render(b.String())
}

// renderAPIGrid renders probe results as cards
func (m Model) renderAPIGrid(apis []monitor.Result, width int) string {
	cols := 3
	if width < 120 {
		cols = 2
	}
	cardWidth := (width - 4) / cols
	if cardWidth < 24 {
		cardWidth = 24
		cols = 1
	}

	var rows []string
	for i := 0; i < len(apis); i += cols {
		end := i + cols
		if end > len(apis) {
			end = len(apis)
		}

		var cards []string
		for j := i; j < end; j++ {
			cards = append(cards, m.renderAPICard(apis[j], cardWidth, j == m.selectedIndex))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return strings.Join(rows, "\n")
}

// renderAPICard renders one probe result
func (m Model) renderAPICard(api monitor.Result, width int, selected bool) string {
	var b strings.Builder

	name := api.Name
	maxNameLen := width - 6
	if len(name) > maxNameLen {
		name = name[:maxNameLen-1] + "…"
	}

	icon := lipgloss.NewStyle().Foreground(statusColor(api.Status)).Render(statusIcon(api.Status))
	b.WriteString(fmt.Sprintf("%s %s", icon, nameStyle.Render(name)))
	b.WriteString("\n")

	b.WriteString(secondaryStyle.Render(fmt.Sprintf("%s • %s", api.Status, formatDuration(api.ResponseTime))))
	b.WriteString("\n")
	if !api.CheckedAt.IsZero() {
		b.WriteString(lipgloss.NewStyle().Foreground(colorSubtle).Render(formatTime(api.CheckedAt)))
	}

	if api.Error != "" {
		b.WriteString("\n")
		errMsg := api.Error
		if len(errMsg) > width-4 {
			errMsg = errMsg[:width-7] + "…"
		}
		b.WriteString(errorStyle.Render(errMsg))
	}

	border := statusColor(api.Status)
	if selected {
		border = colorAccent
	}
	return baseCardStyle.
		Width(width).
		BorderForeground(border).
		Render(b.String())
}

// renderDetail shows the selected probe in full
func (m Model) renderDetail(width int) string {
	api := m.snapshot.Health.APIs[m.selectedIndex]

	lines := []string{
		nameStyle.Render(api.Name),
		"",
		fmt.Sprintf("URL:           %s", api.URL),
		fmt.Sprintf("Status:        %s", api.Status),
		fmt.Sprintf("Response time: %s", formatDuration(api.ResponseTime)),
		fmt.Sprintf("Checked:       %s", api.CheckedAt.Format(time.RFC3339)),
	}
	if api.Error != "" {
		lines = append(lines, errorStyle.Render("Error:         "+api.Error))
	}
	lines = append(lines, "", metadataStyle.Render("Esc / Enter to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(statusColor(api.Status)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderFooter renders the status bar
func (m Model) renderFooter(width int) string {
	left := fmt.Sprintf(" %s │ q quit • r refresh • n add probe • enter details", time.Now().Format("15:04:05"))
	if m.flash != "" && time.Since(m.flashTime) < 5*time.Second {
		left = fmt.Sprintf(" %s │ %s", time.Now().Format("15:04:05"), m.flash)
	}

	right := "No probes "
	if m.snapshot != nil && len(m.snapshot.Health.APIs) > 0 {
		counts := m.snapshot.Health.Counts()
		right = fmt.Sprintf("%d/%d online ", counts[monitor.StatusOnline], len(m.snapshot.Health.APIs))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return lipgloss.NewStyle().
		Foreground(colorMuted).
		BorderTop(true).
		BorderForeground(colorSubtle).
		Width(width).
		PaddingTop(1).
		Render(left + strings.Repeat(" ", gap) + right)
}

func sourceLine(source fetcher.Source, fetchedAt time.Time) string {
	text := string(source)
	if !fetchedAt.IsZero() {
		text += " • " + formatTime(fetchedAt)
	}
	return lipgloss.NewStyle().Foreground(sourceColor(source)).Render(text)
}

func sourceColor(source fetcher.Source) lipgloss.Color {
	switch source {
	case fetcher.SourceLive, fetcher.SourceCache:
		return colorHealthy
	case fetcher.SourceStale:
		return colorChecking
	default:
		return colorUnhealthy
	}
}

func overallColor(o monitor.Overall) lipgloss.Color {
	switch o {
	case monitor.OverallHealthy:
		return colorHealthy
	case monitor.OverallDegraded:
		return colorChecking
	default:
		return colorUnhealthy
	}
}

func statusColor(s monitor.Status) lipgloss.Color {
	switch s {
	case monitor.StatusOnline:
		return colorHealthy
	case monitor.StatusSlow:
		return colorChecking
	default:
		return colorUnhealthy
	}
}

func statusIcon(s monitor.Status) string {
	switch s {
	case monitor.StatusOnline:
		return "✓"
	case monitor.StatusSlow:
		return "◐"
	default:
		return "✗"
	}
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return fmt.Sprintf("%d seconds ago", int(diff.Seconds()))
	}
	if diff < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	}

	return t.Format("15:04:05")
}
