package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigOperations(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("SPACECOUNT_CONFIG", "")

	if err := InitConfig(false); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	configPath := filepath.Join(tmpHome, ".config", "spacecount", "config.yml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	if err := InitConfig(false); err == nil {
		t.Error("expected InitConfig to refuse overwriting without force")
	}

	cfg, err := LoadRaw()
	if err != nil {
		t.Fatalf("LoadRaw failed: %v", err)
	}
	if len(cfg.Health.Probes) != 3 {
		t.Fatalf("expected 3 default probes, got %d", len(cfg.Health.Probes))
	}

	if err := cfg.AddProbe(Probe{Name: "mirror", URL: "http://example.com/astros.json"}); err != nil {
		t.Errorf("AddProbe failed: %v", err)
	}
	if err := cfg.AddProbe(Probe{Name: "mirror", URL: "http://example.com"}); err == nil {
		t.Error("expected duplicate probe to be rejected")
	}

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	cfg2, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg2.Health.Probes) != 4 {
		t.Errorf("Expected 4 probes after reload, got %d", len(cfg2.Health.Probes))
	}

	if err := cfg2.RemoveProbe("mirror"); err != nil {
		t.Errorf("RemoveProbe failed: %v", err)
	}
	if len(cfg2.Health.Probes) != 3 {
		t.Errorf("Expected 3 probes after remove, got %d", len(cfg2.Health.Probes))
	}
	if err := cfg2.RemoveProbe("mirror"); err == nil {
		t.Error("expected removing a missing probe to fail")
	}
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("SPACECOUNT_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("SPACE_PEOPLE_API", "")
	t.Setenv("NEXT_PUBLIC_SPACE_PEOPLE_API", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.People.URL != DefaultPeopleURL {
		t.Errorf("expected default people url, got %s", cfg.People.URL)
	}
	if cfg.People.TTLDuration() != 5*time.Minute {
		t.Errorf("expected 5m people ttl, got %s", cfg.People.TTLDuration())
	}
	if cfg.ISS.TTLDuration() != 5*time.Second {
		t.Errorf("expected 5s iss ttl, got %s", cfg.ISS.TTLDuration())
	}
	if cfg.People.DegradeSilently {
		t.Error("people endpoint should not degrade silently by default")
	}
	if !cfg.ISS.DegradeSilently {
		t.Error("iss endpoint should degrade silently by default")
	}
}

func TestApplyEnvPrimaryAndLegacyAliases(t *testing.T) {
	t.Setenv("SPACE_PEOPLE_API", "")
	t.Setenv("NEXT_PUBLIC_SPACE_PEOPLE_API", "http://legacy.example/astros.json")
	t.Setenv("ISS_API", "http://primary.example/iss")
	t.Setenv("NEXT_PUBLIC_ISS_API", "http://legacy.example/iss")
	t.Setenv("PORT", "9090")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.People.URL != "http://legacy.example/astros.json" {
		t.Errorf("expected legacy alias to apply, got %s", cfg.People.URL)
	}
	if cfg.ISS.URL != "http://primary.example/iss" {
		t.Errorf("expected primary variable to win, got %s", cfg.ISS.URL)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("expected listen :9090, got %s", cfg.Listen)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`listen: ":7000"
iss:
  url: http://iss.local/now
  ttl: 2s
  timeout: 1s
  degrade_silently: false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Listen != ":7000" || cfg.ISS.URL != "http://iss.local/now" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.ISS.DegradeSilently {
		t.Error("expected degrade_silently override")
	}
	if cfg.People.URL != DefaultPeopleURL {
		t.Errorf("unset sections should keep defaults, got %s", cfg.People.URL)
	}
	if len(cfg.Health.Probes) != 3 {
		t.Errorf("expected default probes, got %d", len(cfg.Health.Probes))
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	cfg := Default()
	cfg.ISS.Timeout = "0s"
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero timeout to be rejected")
	}

	cfg = Default()
	cfg.People.TTL = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unparsable ttl to be rejected")
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "world")

	val := ResolveEnv("hello ${TEST_VAR}")
	if val != "hello world" {
		t.Errorf("Expected 'hello world', got '%s'", val)
	}
}
