package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/juryline/engine/internal/ports"
)

const (
	// rpcProviderName identifies the A2A backend in errors and metrics.
	rpcProviderName = "a2a"

	// rpcMethod is the JSON-RPC method every task invocation uses.
	rpcMethod = "message/send"

	// rpcDefaultTimeout bounds requests when the config sets none.
	rpcDefaultTimeout = 60 * time.Second
)

func init() {
	RegisterProviderFactory(rpcProviderName, newRPCProvider)
}

// rpcProvider implements CoreAgent against an A2A orchestration platform
// speaking JSON-RPC 2.0 over HTTP. Each task is addressed by its prompt
// id; the payload travels as a JSON text part and the result comes back
// the same way.
type rpcProvider struct {
	baseURL   string
	apiKey    string
	promptIDs map[string]string
	client    *http.Client
}

// newRPCProvider creates an A2A backend instance. BaseURL and APIKey are
// required; a task missing from PromptIDs is declined at call time rather
// than here, so partial rollouts only disable the unmapped tasks.
func newRPCProvider(config ClientConfig) (CoreAgent, error) {
	if config.APIKey == "" {
		return nil, errors.New("a2a API key cannot be empty")
	}
	baseURL, err := validateBaseURL(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}
	if baseURL == "" {
		return nil, errors.New("a2a base URL is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = rpcDefaultTimeout
	}

	promptIDs := make(map[string]string, len(config.PromptIDs))
	for task, id := range config.PromptIDs {
		promptIDs[task] = id
	}

	return &rpcProvider{
		baseURL:   baseURL,
		apiKey:    config.APIKey,
		promptIDs: promptIDs,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// rpcRequest is the JSON-RPC 2.0 envelope for a task invocation.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Message rpcMessage `json:"message"`
}

type rpcMessage struct {
	Parts []rpcPart `json:"parts"`
}

type rpcPart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// rpcResponse is the subset of the JSON-RPC result envelope the client
// reads. The agent's answer is the text of the first part.
type rpcResponse struct {
	Result struct {
		Parts []rpcPart `json:"parts"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DoTask implements CoreAgent. The payload is wrapped in a message/send
// envelope and posted to the task's prompt endpoint with bearer auth.
func (p *rpcProvider) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	promptID, ok := p.promptIDs[task]
	if !ok {
		return nil, ports.NewAgentError(rpcProviderName, task,
			fmt.Errorf("no prompt id configured: %w", ports.ErrAgentDeclined))
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  rpcMethod,
		Params: rpcParams{
			Message: rpcMessage{
				Parts: []rpcPart{{Kind: "text", Text: string(payload)}},
			},
		},
	})
	if err != nil {
		return nil, ports.NewAgentError(rpcProviderName, task, fmt.Errorf("encode request: %w", err))
	}

	endpoint := p.baseURL + "/v1/a2a/" + url.PathEscape(promptID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, ports.NewAgentError(rpcProviderName, task, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyContextError(rpcProviderName, task, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(rpcProviderName, task, resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, ports.NewAgentError(rpcProviderName, task, fmt.Errorf("read response: %w", err))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ports.NewAgentError(rpcProviderName, task,
			fmt.Errorf("decode envelope: %v: %w", err, ports.ErrInvalidResponse))
	}
	if envelope.Error != nil {
		return nil, ports.NewAgentError(rpcProviderName, task,
			fmt.Errorf("rpc error %d: %s: %w", envelope.Error.Code, envelope.Error.Message, ports.ErrInvalidResponse))
	}
	if len(envelope.Result.Parts) == 0 {
		return nil, ports.NewAgentError(rpcProviderName, task,
			fmt.Errorf("empty result parts: %w", ports.ErrInvalidResponse))
	}

	return []byte(ExtractJSON(envelope.Result.Parts[0].Text)), nil
}

// Provider implements CoreAgent.
func (p *rpcProvider) Provider() string { return rpcProviderName }

// Health reports whether the A2A platform is reachable. It hits the
// platform health endpoint with a short deadline independent of the
// client's task timeout.
func (p *rpcProvider) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: %w",
			classifyHTTPError(rpcProviderName, "health", resp.StatusCode, errors.New(resp.Status)))
	}
	return nil
}

// validateBaseURL validates and normalizes a base URL string. The scheme
// must be http or https and a host must be present. An empty string is
// passed through for backends with default endpoints.
func validateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.New("URL must include a host")
	}

	// Trailing slashes would double up when joining task paths.
	normalized := parsed.String()
	for len(normalized) > 0 && normalized[len(normalized)-1] == '/' {
		normalized = normalized[:len(normalized)-1]
	}
	return normalized, nil
}
