package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "meta-llama/llama-3.3-70b-instruct"
)

// OpenRouter calls the OpenRouter chat-completions API, which speaks the
// OpenAI wire dialect.
type OpenRouter struct {
	http    *resty.Client
	apiKey  string
	modelID string
}

// NewOpenRouter creates the OpenRouter provider.
func NewOpenRouter(apiKey, modelID string) *OpenRouter {
	if modelID == "" {
		modelID = defaultOpenRouterModel
	}
	return &OpenRouter{
		http:    resty.New().SetBaseURL(openRouterBaseURL).SetTimeout(90 * time.Second),
		apiKey:  apiKey,
		modelID: modelID,
	}
}

func (c *OpenRouter) Name() string { return "openrouter" }

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float32                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends the request and extracts the first choice's text.
func (c *OpenRouter) Generate(ctx context.Context, req Request) (string, error) {
	body := chatCompletionRequest{
		Model:       c.modelID,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    []chatCompletionMessage{{Role: "system", Content: req.System}},
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	var parsed chatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(c.apiKey).
		SetBody(body).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter: %v: %w", err, ErrTransport)
	}
	if resp.StatusCode() != 200 {
		msg := resp.String()
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("openrouter: status %d: %s: %w", resp.StatusCode(), msg, classifyStatus(resp.StatusCode(), msg))
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openrouter: %s: %w", parsed.Error.Message, ErrTransport)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter: response has no choices: %w", ErrMalformedOutput)
	}
	return parsed.Choices[0].Message.Content, nil
}
