package notify

import (
	"fmt"
	"strings"

	"github.com/martinlindhe/notify"

	"github.com/juststeveking/spacecount/internal/monitor"
)

const appName = "Spacecount"

// Notifier sends desktop notifications when upstream health changes
type Notifier struct {
	enabled bool
	send    func(appName, title, text, iconPath string)
}

// NewNotifier creates a new notifier instance
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send:    notify.Notify,
	}
}

// NotifyFailure reports a drop to degraded or down
func (n *Notifier) NotifyFailure(report monitor.Report) {
	if !n.enabled {
		return
	}

	title := fmt.Sprintf("⚠️  Space APIs %s", report.Overall)
	n.send(appName, title, failingProbes(report), "")
}

// NotifyRecovery reports a return to healthy
func (n *Notifier) NotifyRecovery(report monitor.Report) {
	if !n.enabled {
		return
	}

	counts := report.Counts()
	message := fmt.Sprintf("%d/%d upstreams online", counts[monitor.StatusOnline], len(report.APIs))
	n.send(appName, "✅ Space APIs recovered", message, "")
}

// NotifyStatusChange picks the right notification for an overall transition.
// It matches monitor.Poller's OnChange hook.
func (n *Notifier) NotifyStatusChange(previous, current monitor.Overall, report monitor.Report) {
	if previous == current {
		return
	}

	if current == monitor.OverallHealthy {
		n.NotifyRecovery(report)
		return
	}

	// healthy -> degraded, healthy -> down, degraded -> down
	if rank(current) < rank(previous) {
		n.NotifyFailure(report)
	}
}

func rank(o monitor.Overall) int {
	switch o {
	case monitor.OverallHealthy:
		return 2
	case monitor.OverallDegraded:
		return 1
	default:
		return 0
	}
}

func failingProbes(report monitor.Report) string {
	var lines []string
	for _, api := range report.APIs {
		if api.Status == monitor.StatusOnline {
			continue
		}
		line := fmt.Sprintf("%s: %s", api.Name, api.Status)
		if api.Error != "" {
			line += " (" + api.Error + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "All upstreams responded"
	}
	return strings.Join(lines, "\n")
}
