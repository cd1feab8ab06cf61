package main

import (
	"testing"
	"time"

	"github.com/esnunes/promptsmith/internal/config"
	"github.com/esnunes/promptsmith/internal/llm"
)

func TestBackendSettings(t *testing.T) {
	cfg := &config.Config{
		Backend:         config.BackendOpenAI,
		AnthropicAPIKey: "sk-ant-xxxxxxxxxxxx",
		AnthropicModel:  "claude",
		OpenAIAPIKey:    "sk-openai",
		OpenAIBaseURL:   "http://localhost:11434/v1",
		OpenAIModel:     "llama3.1",
		Language:        "English",
		ProbeTimeout:    2 * time.Second,
	}

	s := backendSettings(cfg)
	if s.Kind != llm.KindOpenAI || s.Model != "llama3.1" || s.APIKey != "sk-openai" || s.BaseURL != cfg.OpenAIBaseURL {
		t.Errorf("unexpected openai settings %+v", s)
	}
	if s.Language != "English" || s.ProbeTimeout != 2*time.Second {
		t.Errorf("shared settings not carried: %+v", s)
	}

	cfg.Backend = config.BackendAnthropic
	s = backendSettings(cfg)
	if s.Kind != llm.KindAnthropic || s.Model != "claude" || s.APIKey != cfg.AnthropicAPIKey {
		t.Errorf("unexpected anthropic settings %+v", s)
	}
	if _, err := llm.New(s); err != nil {
		t.Errorf("settings rejected by llm.New: %v", err)
	}
}
