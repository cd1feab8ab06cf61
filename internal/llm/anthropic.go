package llm

import (
	"context"
	"errors"
	"strings"
	"unicode"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/esnunes/promptsmith/internal/models"
)

const anthropicMaxTokens = 8192

// AnthropicBackend talks to the managed Anthropic Messages API.
type AnthropicBackend struct {
	client   *anthropic.Client
	apiKey   string
	model    string
	language string
}

func NewAnthropicBackend(s Settings) *AnthropicBackend {
	var opts []anthropic.ClientOption
	if s.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(s.BaseURL))
	}
	return &AnthropicBackend{
		client:   anthropic.NewClient(s.APIKey, opts...),
		apiKey:   s.APIKey,
		model:    s.Model,
		language: s.Language,
	}
}

func (b *AnthropicBackend) Name() string { return string(KindAnthropic) }

// CheckAvailability only looks at the credential so it never spends quota.
func (b *AnthropicBackend) CheckAvailability(ctx context.Context) bool {
	return plausibleKey(b.apiKey)
}

func (b *AnthropicBackend) Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error) {
	temperature := float32(0.3)
	resp, err := b.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(b.model),
		System: systemPrompt(b.language),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userMessage(title, draft)),
			// Prefilling the reply forces the model to continue a JSON object.
			anthropic.NewAssistantTextMessage("{"),
		},
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, &AnalysisError{Backend: b.Name(), StatusCode: anthropicStatus(err), Err: err}
	}

	result, err := parseResult("{" + resp.GetFirstContentText())
	if err != nil {
		return nil, &AnalysisError{Backend: b.Name(), Err: err}
	}
	return result, nil
}

func anthropicStatus(err error) int {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

func plausibleKey(key string) bool {
	key = strings.TrimSpace(key)
	if len(key) <= 10 {
		return false
	}
	return strings.IndexFunc(key, unicode.IsSpace) < 0
}
