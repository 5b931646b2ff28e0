package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/logging"
)

// Monitor orchestrates health checks for all configured probes
type Monitor struct {
	mu      sync.RWMutex
	probes  []config.Probe
	checker Checker
	logger  logging.Logger
	now     func() time.Time
}

// NewMonitor creates a new monitor instance
func NewMonitor(probes []config.Probe, checker Checker, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Monitor{
		probes:  append([]config.Probe(nil), probes...),
		checker: checker,
		logger:  logger,
		now:     time.Now,
	}
}

// Probes returns the monitored endpoints in report order
func (m *Monitor) Probes() []config.Probe {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]config.Probe(nil), m.probes...)
}

// AddProbe appends a probe; it is checked from the next round on
func (m *Monitor) AddProbe(probe config.Probe) {
	m.mu.Lock()
	m.probes = append(m.probes, probe)
	m.mu.Unlock()
}

// CheckAll probes every upstream concurrently and waits for all of them.
// Results keep the configured probe order.
func (m *Monitor) CheckAll(ctx context.Context) Report {
	probes := m.Probes()
	results := make([]Result, len(probes))

	var wg sync.WaitGroup
	for i, probe := range probes {
		wg.Add(1)
		go func(i int, p config.Probe) {
			defer wg.Done()
			results[i] = m.checker.Check(ctx, p)
		}(i, probe)
	}
	wg.Wait()

	statuses := make([]Status, len(results))
	for i, r := range results {
		statuses[i] = r.Status
	}

	report := Report{
		Overall:   Reduce(statuses),
		APIs:      results,
		Timestamp: m.now(),
	}

	m.logger.WithField("overall", report.Overall).Info(report.Summary())
	return report
}

// Reduce folds per-probe statuses into one. Thresholds are fixed for the
// three default probes: two online is healthy, any online or slow is degraded.
func Reduce(statuses []Status) Overall {
	var online, slow int
	for _, s := range statuses {
		switch s {
		case StatusOnline:
			online++
		case StatusSlow:
			slow++
		}
	}

	switch {
	case online >= 2:
		return OverallHealthy
	case online >= 1 || slow >= 1:
		return OverallDegraded
	default:
		return OverallDown
	}
}
