package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/juststeveking/spacecount/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProbeAddAndRemove(t *testing.T) {
	t.Setenv("SPACECOUNT_CONFIG", filepath.Join(t.TempDir(), "config.yml"))

	if _, _, err := runCommand(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, _, err := runCommand(t, "probe:add", "--name", "mirror", "--url", "http://mirror/astros.json"); err != nil {
		t.Fatalf("probe:add failed: %v", err)
	}

	cfg, err := config.LoadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Health.Probes) != 4 {
		t.Fatalf("Expected 4 probes, got %d", len(cfg.Health.Probes))
	}

	if _, _, err := runCommand(t, "probe:remove", "mirror", "--force"); err != nil {
		t.Fatalf("probe:remove failed: %v", err)
	}
	cfg, _ = config.LoadRaw()
	if len(cfg.Health.Probes) != 3 {
		t.Errorf("Expected 3 probes after remove, got %d", len(cfg.Health.Probes))
	}
}

func TestFetchPeopleUsesEnvOverride(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"success","number":1,"people":[{"name":"Solo","craft":"ISS"}]}`))
	}))
	defer upstream.Close()

	t.Setenv("SPACECOUNT_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("SPACE_PEOPLE_API", upstream.URL)

	stdout, stderr, err := runCommand(t, "fetch:people")
	if err != nil {
		t.Fatalf("fetch:people failed: %v", err)
	}

	var roster struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(stdout), &roster); err != nil {
		t.Fatalf("invalid JSON output %q: %v", stdout, err)
	}
	if roster.Number != 1 {
		t.Errorf("Expected 1 person, got %d", roster.Number)
	}
	if !bytes.Contains([]byte(stderr), []byte("source: live")) {
		t.Errorf("Expected live source on stderr, got %q", stderr)
	}
}
