package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/esnunes/promptsmith/internal/models"
)

const defaultProbeTimeout = 5 * time.Second

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Ollama, LM Studio, DeepSeek, ...).
type OpenAIBackend struct {
	client       *openai.Client
	model        string
	language     string
	probeTimeout time.Duration
}

func NewOpenAIBackend(s Settings) *OpenAIBackend {
	config := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		config.BaseURL = s.BaseURL
	}
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &OpenAIBackend{
		client:       openai.NewClientWithConfig(config),
		model:        s.Model,
		language:     s.Language,
		probeTimeout: timeout,
	}
}

func (b *OpenAIBackend) Name() string { return string(KindOpenAI) }

// CheckAvailability lists models under a short timeout.
func (b *OpenAIBackend) CheckAvailability(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	_, err := b.client.ListModels(ctx)
	return err == nil
}

func (b *OpenAIBackend) Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error) {
	temperature := float32(0.3)
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(b.language)},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(title, draft)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: &temperature,
	})
	if err != nil {
		return nil, &AnalysisError{Backend: b.Name(), StatusCode: openAIStatus(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &AnalysisError{Backend: b.Name(), Err: errors.New("empty choices")}
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &AnalysisError{Backend: b.Name(), Err: err}
	}
	return result, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
