package cmd

import (
	"fmt"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/fetcher"
	"github.com/juststeveking/spacecount/internal/logging"
	"github.com/juststeveking/spacecount/internal/metrics"
	"github.com/juststeveking/spacecount/internal/monitor"
	"github.com/juststeveking/spacecount/internal/space"
	"github.com/juststeveking/spacecount/internal/upstream"
)

// app wires the shared components every command runs on
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Collector

	client      *upstream.Client
	probeClient *upstream.Client

	people  *fetcher.CachedFetcher[space.Roster]
	iss     *fetcher.CachedFetcher[space.Position]
	monitor *monitor.Monitor
}

func newApp(format logging.Format) (*app, error) {
	logger := logging.NewLogger(config.GetEnv("LOG_LEVEL", config.DefaultLogLevel), format)
	config.LoadEnv(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'spacecount init' to create one)", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.SetLevel(logging.ParseLevel(cfg.LogLevel))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(version),
	}

	var clientOpts []upstream.Option
	if cfg.CircuitBreaker.Enabled {
		clientOpts = append(clientOpts, upstream.WithCircuitBreaker(upstream.BreakerConfig{
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			Delay:            cfg.CircuitBreaker.DelayDuration(),
			OnStateChange: func(url, from, to string) {
				logger.WithFields(logging.Fields{"url": url, "from": from, "to": to}).Warn("Circuit breaker state changed")
			},
		}))
	}
	a.client = upstream.NewClient(clientOpts...)
	// probes always hit the network so health reflects the current state
	a.probeClient = upstream.NewClient()

	fetchOpts := []fetcher.Option{
		fetcher.WithLogger(logger),
		fetcher.WithRecorder(a.metrics),
	}

	a.people = fetcher.New(fetcher.Options[space.Roster]{
		Name:            "people",
		URL:             cfg.People.URL,
		TTL:             cfg.People.TTLDuration(),
		Timeout:         cfg.People.TimeoutDuration(),
		Normalize:       space.NormalizeRoster,
		Fallback:        space.FallbackRoster,
		Stale:           space.StaleRoster,
		DegradeSilently: cfg.People.DegradeSilently,
	}, a.client, fetchOpts...)

	a.iss = fetcher.New(fetcher.Options[space.Position]{
		Name:            "iss",
		URL:             cfg.ISS.URL,
		TTL:             cfg.ISS.TTLDuration(),
		Timeout:         cfg.ISS.TimeoutDuration(),
		Normalize:       space.NormalizePosition,
		Fallback:        space.FallbackPosition,
		Stale:           space.StalePosition,
		DegradeSilently: cfg.ISS.DegradeSilently,
	}, a.client, fetchOpts...)

	checker := monitor.NewHTTPChecker(a.probeClient, cfg.Health.TimeoutDuration(), cfg.Health.SlowThresholdDuration())
	a.monitor = monitor.NewMonitor(cfg.Health.Probes, checker, logger)

	logger.WithFields(logging.Fields{
		"people_url": cfg.People.URL,
		"iss_url":    cfg.ISS.URL,
		"probes":     len(cfg.Health.Probes),
	}).Debug("Configuration loaded")

	return a, nil
}

func (a *app) Close() {
	a.client.Close()
	a.probeClient.Close()
}
