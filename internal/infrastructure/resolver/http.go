// Package resolver provides intent-resolver adapters: an HTTP client for
// LLM chat endpoints and an offline rule engine. Resolver failures are
// always converted into the core error taxonomy before they leave this
// package's callers.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

// intentPayload is the strict JSON document the endpoint must return.
type intentPayload struct {
	Subcommand  string            `json:"subcommand"`
	Parameters  map[string]string `json:"parameters"`
	Confidence  float64           `json:"confidence"`
	Explanation string            `json:"explanation"`
}

// httpResolver maps queries to intents through an OpenAI-compatible chat
// endpoint.
type httpResolver struct {
	cfg        domain.ResolverConfig
	httpClient *http.Client
}

func newHTTPResolver(cfg domain.ResolverConfig, client *http.Client) ports.IntentResolver {
	return &httpResolver{cfg: cfg, httpClient: client}
}

func (r *httpResolver) Name() string {
	if r.cfg.Name != "" {
		return r.cfg.Name
	}
	return "http"
}

func (r *httpResolver) Resolve(ctx context.Context, req ports.ResolveRequest) (ports.ResolveResponse, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:     r.cfg.ModelID,
		MaxTokens: maxTokens(r.cfg.MaxTokens),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
	})
	if err != nil {
		return ports.ResolveResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.ResolveResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	if key := resolveAuth(r.cfg.AuthEnvVar); key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		// Preserve context cancellation so callers can classify timeouts.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ports.ResolveResponse{}, ctxErr
		}
		return ports.ResolveResponse{}, fmt.Errorf("%s: %w", r.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ports.ResolveResponse{}, fmt.Errorf("%s: %s", r.Name(), resp.Status)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return ports.ResolveResponse{}, fmt.Errorf("%s: decode response: %w", r.Name(), err)
	}

	return parseIntent(completion.FirstMessage())
}

// parseIntent decodes the strict JSON intent document, tolerating code
// fences some models wrap around JSON output.
func parseIntent(content string) (ports.ResolveResponse, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload intentPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return ports.ResolveResponse{}, fmt.Errorf("resolver returned malformed intent: %w", err)
	}

	out := ports.ResolveResponse{
		Subcommand:  payload.Subcommand,
		Confidence:  payload.Confidence,
		Explanation: payload.Explanation,
	}
	for name, value := range payload.Parameters {
		out.Guesses = append(out.Guesses, ports.ParameterGuess{Name: name, Value: value})
	}
	sortGuesses(out.Guesses)
	return out, nil
}

func resolveAuth(envVar string) string {
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

func maxTokens(value int) int {
	if value == 0 {
		return domain.DefaultMaxTokens
	}
	return value
}
