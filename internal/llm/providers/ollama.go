package providers

import (
	"strings"
	"time"
)

// OllamaConfig configures the Ollama provider.
type OllamaConfig struct {
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// NewOllamaProvider returns a provider against a local or remote Ollama
// server using its OpenAI-compatible /v1 endpoint, reusing OpenAIProvider's
// message/tool conversion and response parsing rather than duplicating it.
func NewOllamaProvider(cfg OllamaConfig) *OpenAIProvider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = "llama3"
	}
	return newOpenAICompatible("ollama", "ollama", baseURL, model, cfg.Timeout)
}
