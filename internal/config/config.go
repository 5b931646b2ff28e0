package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen          = ":8080"
	DefaultLogLevel        = "info"
	DefaultRefreshInterval = "10s"

	DefaultPeopleURL = "https://api.open-notify.org/astros.json"
	DefaultISSURL    = "https://api.wheretheiss.at/v1/satellites/25544"

	DefaultPeopleTTL     = "5m"
	DefaultISSTTL        = "5s"
	DefaultFetchTimeout  = "10s"
	DefaultProbeTimeout  = "5s"
	DefaultSlowThreshold = "3s"
)

// Config represents the spacecount configuration
type Config struct {
	Listen          string         `yaml:"listen"`
	LogLevel        string         `yaml:"log_level"`
	RefreshInterval string         `yaml:"refresh_interval"`
	Notifications   bool           `yaml:"notifications"`
	People          Resource       `yaml:"people"`
	ISS             Resource       `yaml:"iss"`
	Health          Health         `yaml:"health"`
	CircuitBreaker  CircuitBreaker `yaml:"circuit_breaker"`
}

// Resource describes one proxied upstream and its caching policy
type Resource struct {
	URL     string `yaml:"url"`
	TTL     string `yaml:"ttl"`
	Timeout string `yaml:"timeout"`
	// DegradeSilently answers 200 instead of 503 when static fallback data is served.
	DegradeSilently bool `yaml:"degrade_silently"`
}

// Health configures the upstream health probes
type Health struct {
	Timeout       string  `yaml:"timeout"`
	SlowThreshold string  `yaml:"slow_threshold"`
	Probes        []Probe `yaml:"probes"`
}

// Probe is a single monitored upstream endpoint
type Probe struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// CircuitBreaker configures the optional per-upstream breaker
type CircuitBreaker struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint   `yaml:"failure_threshold"`
	Delay            string `yaml:"delay"`
}

// DefaultProbes are the endpoints watched by the health aggregator
func DefaultProbes() []Probe {
	return []Probe{
		{Name: "ISS Location (wheretheiss.at)", URL: DefaultISSURL},
		{Name: "People in Space (open-notify)", URL: DefaultPeopleURL},
		{Name: "ISS Location Backup (open-notify)", URL: "https://api.open-notify.org/iss-now.json"},
	}
}

// Default returns a configuration populated with compiled-in defaults
func Default() *Config {
	return &Config{
		Listen:          DefaultListen,
		LogLevel:        DefaultLogLevel,
		RefreshInterval: DefaultRefreshInterval,
		People: Resource{
			URL:     DefaultPeopleURL,
			TTL:     DefaultPeopleTTL,
			Timeout: DefaultFetchTimeout,
		},
		ISS: Resource{
			URL:             DefaultISSURL,
			TTL:             DefaultISSTTL,
			Timeout:         DefaultFetchTimeout,
			DegradeSilently: true,
		},
		Health: Health{
			Timeout:       DefaultProbeTimeout,
			SlowThreshold: DefaultSlowThreshold,
			Probes:        DefaultProbes(),
		},
		CircuitBreaker: CircuitBreaker{
			FailureThreshold: 5,
			Delay:            "30s",
		},
	}
}

// GetConfigPath returns the path to the global config file
func GetConfigPath() (string, error) {
	if p := os.Getenv("SPACECOUNT_CONFIG"); p != "" {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "spacecount", "config.yml"), nil
}

// InitConfig creates the config directory and file with default content
func InitConfig(force bool) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	return SaveConfig(Default())
}

// LoadConfig reads the config file, falling back to defaults when it does not exist.
// Environment overrides are applied last.
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRaw reads the config file without environment overrides, for editing
// and saving back. A missing file yields the defaults.
func LoadRaw() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile parses a single YAML file on top of the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Health.Probes) == 0 {
		cfg.Health.Probes = DefaultProbes()
	}

	return cfg, nil
}

// SaveConfig writes the config back to the file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides file values with environment variables.
// Each upstream URL has a primary variable and a legacy alias.
func (c *Config) ApplyEnv() {
	if v := FirstEnv("SPACE_PEOPLE_API", "NEXT_PUBLIC_SPACE_PEOPLE_API"); v != "" {
		c.People.URL = v
	}
	if v := FirstEnv("ISS_API", "NEXT_PUBLIC_ISS_API"); v != "" {
		c.ISS.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	c.Notifications = GetEnvBool("SPACECOUNT_NOTIFICATIONS", c.Notifications)

	c.People.URL = ResolveEnv(c.People.URL)
	c.ISS.URL = ResolveEnv(c.ISS.URL)
	for i := range c.Health.Probes {
		c.Health.Probes[i].URL = ResolveEnv(c.Health.Probes[i].URL)
	}
}

// Validate checks that durations parse and URLs are set
func (c *Config) Validate() error {
	if c.People.URL == "" {
		return fmt.Errorf("people.url is required")
	}
	if c.ISS.URL == "" {
		return fmt.Errorf("iss.url is required")
	}

	checks := map[string]string{
		"people.ttl":            c.People.TTL,
		"people.timeout":        c.People.Timeout,
		"iss.ttl":               c.ISS.TTL,
		"iss.timeout":           c.ISS.Timeout,
		"health.timeout":        c.Health.Timeout,
		"health.slow_threshold": c.Health.SlowThreshold,
		"refresh_interval":      c.RefreshInterval,
	}
	for field, value := range checks {
		if _, err := parsePositive(value); err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
	}

	if c.CircuitBreaker.Enabled {
		if _, err := parsePositive(c.CircuitBreaker.Delay); err != nil {
			return fmt.Errorf("invalid circuit_breaker.delay: %w", err)
		}
	}

	for _, p := range c.Health.Probes {
		if p.Name == "" || p.URL == "" {
			return fmt.Errorf("health probes need a name and url")
		}
	}
	return nil
}

// AddProbe adds a new health probe to the config
func (c *Config) AddProbe(probe Probe) error {
	for _, p := range c.Health.Probes {
		if p.Name == probe.Name {
			return fmt.Errorf("probe with name '%s' already exists", probe.Name)
		}
	}

	c.Health.Probes = append(c.Health.Probes, probe)
	return nil
}

// RemoveProbe removes a probe by name from the config
func (c *Config) RemoveProbe(name string) error {
	for i, p := range c.Health.Probes {
		if p.Name == name {
			c.Health.Probes = append(c.Health.Probes[:i], c.Health.Probes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("probe '%s' not found", name)
}

// TTLDuration returns the parsed cache TTL
func (r Resource) TTLDuration() time.Duration {
	return mustDuration(r.TTL)
}

// TimeoutDuration returns the parsed upstream timeout
func (r Resource) TimeoutDuration() time.Duration {
	return mustDuration(r.Timeout)
}

func (h Health) TimeoutDuration() time.Duration {
	return mustDuration(h.Timeout)
}

func (h Health) SlowThresholdDuration() time.Duration {
	return mustDuration(h.SlowThreshold)
}

func (c CircuitBreaker) DelayDuration() time.Duration {
	return mustDuration(c.Delay)
}

func (c *Config) RefreshIntervalDuration() time.Duration {
	return mustDuration(c.RefreshInterval)
}

// ResolveEnv replaces environment variable placeholders with actual values
// Supports ${VAR_NAME} syntax
func ResolveEnv(value string) string {
	return os.ExpandEnv(value)
}

func parsePositive(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", value)
	}
	return d, nil
}

// mustDuration is only called after Validate; unparsable values yield zero.
func mustDuration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
