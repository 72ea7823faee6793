package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/juryline/engine/internal/ports"
)

const (
	openaiProviderName = "openai"

	// OpenAIDefaultModel is used when the config names no model.
	OpenAIDefaultModel = "gpt-4o-mini"
)

func init() {
	RegisterProviderFactory(openaiProviderName, newOpenAIProvider)
}

// taskSystemPrompts instructs chat backends to answer each task with the
// bare JSON object the client expects. The shapes mirror the A2A prompt
// contracts so either backend can serve the same task.
var taskSystemPrompts = map[string]string{
	TaskAssign: "You are a hackathon judge assignment agent. The user message is a JSON object " +
		"with judges, submissions, and judges_per_submission. Assign each submission to exactly " +
		"judges_per_submission distinct judges, balancing load across judges. Respond with only a " +
		"JSON object: {\"assignments\": [{\"judge_id\": string, \"submission_id\": string}], " +
		"\"strategy\": \"agent\"}.",
	TaskIngest: "You are a hackathon submission intake agent. The user message is a JSON object of " +
		"submission form data. Validate and normalize it. Respond with only a JSON object: " +
		"{\"valid\": bool, \"warnings\": [string], \"errors\": [string], \"normalized\": object}.",
	TaskFeedback: "You are a hackathon feedback agent. The user message is a JSON object with a " +
		"submission, its reviews, and the judging criteria. Summarize the reviews constructively. " +
		"Respond with only a JSON object: {\"summary\": string, \"strengths\": [string], " +
		"\"improvements\": [string], \"overall_sentiment\": \"positive\"|\"mixed\"|\"negative\"}.",
}

// openaiProvider implements CoreAgent on the OpenAI chat completion API.
type openaiProvider struct {
	client *openai.Client
	model  string
}

// newOpenAIProvider creates an OpenAI backend instance.
func newOpenAIProvider(config ClientConfig) (CoreAgent, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai API key cannot be empty")
	}

	model := config.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		validated, err := validateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		clientConfig.BaseURL = validated
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &openaiProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// DoTask implements CoreAgent. The task's system prompt frames the JSON
// contract and the payload rides as the user message.
func (p *openaiProvider) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	system, ok := taskSystemPrompts[task]
	if !ok {
		return nil, ports.NewAgentError(openaiProviderName, task,
			fmt.Errorf("unknown task: %w", ports.ErrAgentDeclined))
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, p.wrapError(task, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ports.NewAgentError(openaiProviderName, task,
			fmt.Errorf("no response choices: %w", ports.ErrInvalidResponse))
	}

	return []byte(ExtractJSON(resp.Choices[0].Message.Content)), nil
}

// Provider implements CoreAgent.
func (p *openaiProvider) Provider() string { return openaiProviderName }

// wrapError classifies OpenAI API failures into the shared taxonomy.
func (p *openaiProvider) wrapError(task string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classifyContextError(openaiProviderName, task, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyHTTPError(openaiProviderName, task, apiErr.HTTPStatusCode, err)
	}
	return ports.NewAgentError(openaiProviderName, task, err)
}
