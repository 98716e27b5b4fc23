package providers

import "testing"

func TestNewOllamaProviderNameAndDefaultModel(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{})
	if p.Name() != "ollama" {
		t.Fatalf("got name %q", p.Name())
	}
	if p.defaultModel != "llama3" {
		t.Fatalf("got default model %q", p.defaultModel)
	}
}

func TestNewOllamaProviderAcceptsTrailingSlashBaseURL(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{BaseURL: "http://example.com:11434/v1/"})
	if p.client == nil {
		t.Fatal("expected a configured client")
	}
}
