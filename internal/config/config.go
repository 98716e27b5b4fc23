// Package config loads and defaults morgul.toml, mirroring the original's
// MorgulConfig/LLMConfig/CacheConfig/HealingConfig/AgentConfig field layout.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LLMConfig selects and parameterizes the model provider.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// CacheConfig controls the content-addressed cache.
type CacheConfig struct {
	Enabled   bool   `toml:"enabled"`
	Directory string `toml:"directory"`
}

// HealingConfig controls the act handler's self-heal retry loop.
type HealingConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxRetries int  `toml:"max_retries"`
}

// AgentConfig controls the autonomous agent loop, including optional
// delegation to an external SDK-managed agentic backend.
type AgentConfig struct {
	MaxSteps int     `toml:"max_steps"`
	Timeout  float64 `toml:"timeout"`
	Strategy string  `toml:"strategy"`

	AgenticProvider string `toml:"agentic_provider"`
	AgenticModel    string `toml:"agentic_model"`
	AgenticAPIKey   string `toml:"agentic_api_key"`
	AgenticCLIPath  string `toml:"agentic_cli_path"`
}

// Config is the top-level configuration record, loaded from morgul.toml if
// present and overlaid with defaults and environment variables.
type Config struct {
	LLM     LLMConfig     `toml:"llm"`
	Cache   CacheConfig   `toml:"cache"`
	Healing HealingConfig `toml:"healing"`
	Agent   AgentConfig   `toml:"agent"`

	Verbose       bool `toml:"verbose"`
	SelfHeal      bool `toml:"self_heal"`
	Visible       bool `toml:"visible"`
	DashboardPort int  `toml:"dashboard_port"`
}

// defaultDashboardPort is used when Visible is true and DashboardPort was
// never set, matching spec's "visible without a port" fallback.
const defaultDashboardPort = 8546

// Default returns the baseline configuration applied before any file or
// environment overlay.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    "anthropic",
			Model:       "claude-sonnet-4-5",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Directory: ".morgul-cache",
		},
		Healing: HealingConfig{
			Enabled:    true,
			MaxRetries: 3,
		},
		Agent: AgentConfig{
			MaxSteps: 20,
			Timeout:  300,
			Strategy: "depth-first",
		},
		SelfHeal: true,
	}
}

// Load reads path (if it exists) and decodes it directly onto Default(), so
// any table or key the file omits keeps its default value — the same
// defaults-then-overlay shape the teacher's mergeRuntimeOptions achieves
// with an explicit merge, simplified here since toml.DecodeFile only
// touches keys actually present in the document. Environment variables for
// API keys are applied last. A missing file is not an error — it just
// means "defaults only".
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: statting %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	normalize(&cfg)
	return cfg, nil
}

// applyEnv overlays API keys from the environment, the one piece of config
// spec §6 says is "overridable ... via environment for API keys".
func applyEnv(cfg *Config) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.LLM.Provider == "anthropic" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = key
	}
}

// normalize applies the one cross-field default spec §6 names explicitly:
// visible with no configured port defaults to 8546.
func normalize(cfg *Config) {
	if cfg.Visible && cfg.DashboardPort == 0 {
		cfg.DashboardPort = defaultDashboardPort
	}
}
