package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if cfg.LLM.Provider != want.LLM.Provider || cfg.Agent.MaxSteps != want.Agent.MaxSteps {
		t.Fatalf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "morgul.toml")
	body := `
[llm]
provider = "openai"
model = "gpt-4o"

[agent]
max_steps = 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("got LLM %+v", cfg.LLM)
	}
	if cfg.Agent.MaxSteps != 50 {
		t.Fatalf("got MaxSteps %d, want 50", cfg.Agent.MaxSteps)
	}
	// Untouched defaults must survive the overlay.
	if !cfg.Cache.Enabled || !cfg.SelfHeal {
		t.Fatalf("expected cache/self-heal defaults to survive, got %+v", cfg)
	}
	if cfg.Agent.Strategy != "depth-first" {
		t.Fatalf("got strategy %q, want default depth-first", cfg.Agent.Strategy)
	}
}

func TestVisibleWithoutPortDefaultsTo8546(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "morgul.toml")
	if err := os.WriteFile(path, []byte("visible = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DashboardPort != defaultDashboardPort {
		t.Fatalf("got dashboard port %d, want %d", cfg.DashboardPort, defaultDashboardPort)
	}
}

func TestEnvOverridesAPIKeyForMatchingProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-123")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-test-123" {
		t.Fatalf("got api key %q", cfg.LLM.APIKey)
	}
}

func TestEnvDoesNotOverrideNonMatchingProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	cfg, err := Load("") // default provider is anthropic
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("got api key %q, want empty since provider is anthropic", cfg.LLM.APIKey)
	}
}
