// Package llm unifies the model backends that rewrite prompts. Each backend
// speaks its own wire protocol but honours the same Backend contract, so
// callers never branch on which one is configured.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esnunes/promptsmith/internal/models"
)

// ErrAnalysisFailed classifies every failure of Backend.Analyze: transport
// errors, non-success statuses and unusable model output alike.
var ErrAnalysisFailed = errors.New("analysis failed")

// Backend is one model service able to optimize a prompt.
type Backend interface {
	Name() string
	// CheckAvailability never returns an error; anything that goes wrong
	// reports false.
	CheckAvailability(ctx context.Context) bool
	// Analyze is stateless and safe to call again after a failure.
	Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error)
}

// Kind selects a backend implementation.
type Kind string

const (
	KindAnthropic Kind = "anthropic"
	KindOpenAI    Kind = "openai"
)

// Settings is the configuration handed to New.
type Settings struct {
	Kind         Kind
	APIKey       string
	Model        string
	BaseURL      string
	Language     string
	ProbeTimeout time.Duration
}

// New builds the backend named by s.Kind.
func New(s Settings) (Backend, error) {
	if s.Model == "" {
		return nil, fmt.Errorf("%s: model is required", s.Kind)
	}
	switch s.Kind {
	case KindAnthropic:
		return NewAnthropicBackend(s), nil
	case KindOpenAI:
		if s.BaseURL == "" {
			return nil, errors.New("openai: base url is required")
		}
		return NewOpenAIBackend(s), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (supported: %s, %s)", s.Kind, KindAnthropic, KindOpenAI)
	}
}

// AnalysisError carries backend details for logs while matching
// ErrAnalysisFailed for callers.
type AnalysisError struct {
	Backend    string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *AnalysisError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s analysis failed (HTTP %d): %v", e.Backend, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s analysis failed: %v", e.Backend, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func (e *AnalysisError) Is(target error) bool {
	return target == ErrAnalysisFailed
}
