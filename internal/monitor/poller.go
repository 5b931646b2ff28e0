package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/juststeveking/spacecount/internal/fetcher"
	"github.com/juststeveking/spacecount/internal/space"
)

// RosterSource serves the astronaut roster
type RosterSource interface {
	Get(ctx context.Context) fetcher.Outcome[space.Roster]
}

// PositionSource serves the ISS position
type PositionSource interface {
	Get(ctx context.Context) fetcher.Outcome[space.Position]
}

// Snapshot is everything the dashboard shows for one tick
type Snapshot struct {
	People   fetcher.Outcome[space.Roster]
	Position fetcher.Outcome[space.Position]
	Health   Report
	TakenAt  time.Time
}

// Poller refreshes the roster, the position and the health report on an
// interval and publishes each round as a Snapshot.
type Poller struct {
	monitor  *Monitor
	people   RosterSource
	iss      PositionSource
	interval time.Duration

	snapshots chan Snapshot
	refresh   chan struct{}
	done      chan struct{}

	mu       sync.Mutex
	onChange func(prev, next Overall, report Report)
	last     Overall
}

// NewPoller creates a poller; Start must be called to begin polling
func NewPoller(m *Monitor, people RosterSource, iss PositionSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		monitor:   m,
		people:    people,
		iss:       iss,
		interval:  interval,
		snapshots: make(chan Snapshot, 1),
		refresh:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// OnChange registers a hook called when the overall status differs from the
// previous round. The first round only sets the baseline.
func (p *Poller) OnChange(fn func(prev, next Overall, report Report)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Start polls until ctx is cancelled
func (p *Poller) Start(ctx context.Context) {
	defer func() {
		close(p.snapshots)
		close(p.done)
	}()

	if !p.poll(ctx) {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.refresh:
			ticker.Reset(p.interval)
		}
		if !p.poll(ctx) {
			return
		}
	}
}

// Refresh asks for an immediate round; extra requests are dropped
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Snapshots returns the channel for receiving poll rounds
func (p *Poller) Snapshots() <-chan Snapshot {
	return p.snapshots
}

// Done returns a channel that's closed when polling stops
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) poll(ctx context.Context) bool {
	var snap Snapshot
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.People = p.people.Get(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Position = p.iss.Get(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Health = p.monitor.CheckAll(ctx)
	}()
	wg.Wait()
	snap.TakenAt = time.Now()

	p.track(snap.Health)

	select {
	case p.snapshots <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Poller) track(report Report) {
	p.mu.Lock()
	prev := p.last
	p.last = report.Overall
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil && prev != "" && prev != report.Overall {
		fn(prev, report.Overall, report)
	}
}
