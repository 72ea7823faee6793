package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/juryline/engine/internal/ports"
)

const (
	anthropicProviderName = "anthropic"

	// AnthropicDefaultModel is used when the config names no model.
	AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

	// anthropicMaxTokens bounds the response size. Task results are small
	// JSON objects, so a modest ceiling suffices.
	anthropicMaxTokens = 4096
)

func init() {
	RegisterProviderFactory(anthropicProviderName, newAnthropicProvider)
}

// anthropicProvider implements CoreAgent on Anthropic's Messages API.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

// newAnthropicProvider creates an Anthropic backend instance.
func newAnthropicProvider(config ClientConfig) (CoreAgent, error) {
	if config.APIKey == "" {
		return nil, errors.New("anthropic API key cannot be empty")
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		validated, err := validateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		opts = append(opts, option.WithBaseURL(validated))
	}

	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// DoTask implements CoreAgent. The task's system prompt frames the JSON
// contract and the payload rides as the user message.
func (p *anthropicProvider) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	system, ok := taskSystemPrompts[task]
	if !ok {
		return nil, ports.NewAgentError(anthropicProviderName, task,
			fmt.Errorf("unknown task: %w", ports.ErrAgentDeclined))
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(payload))),
		},
	})
	if err != nil {
		return nil, p.wrapError(task, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return nil, ports.NewAgentError(anthropicProviderName, task,
			fmt.Errorf("empty response: %w", ports.ErrInvalidResponse))
	}

	return []byte(ExtractJSON(text.String())), nil
}

// Provider implements CoreAgent.
func (p *anthropicProvider) Provider() string { return anthropicProviderName }

// wrapError classifies Anthropic API failures into the shared taxonomy.
func (p *anthropicProvider) wrapError(task string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classifyContextError(anthropicProviderName, task, err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyHTTPError(anthropicProviderName, task, apiErr.StatusCode, err)
	}
	return ports.NewAgentError(anthropicProviderName, task, err)
}
