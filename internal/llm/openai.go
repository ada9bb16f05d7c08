package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the OpenAI chat-completions API through the official
// compatible client.
type OpenAI struct {
	api     *openai.Client
	modelID string
}

// NewOpenAI creates the OpenAI provider. baseURL overrides the default
// endpoint for OpenAI-compatible deployments; empty model selects the
// default.
func NewOpenAI(apiKey, baseURL, modelID string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if modelID == "" {
		modelID = defaultOpenAIModel
	}
	return &OpenAI{
		api:     openai.NewClientWithConfig(config),
		modelID: modelID,
	}
}

func (c *OpenAI) Name() string { return "openai" }

// Generate sends the request and extracts the first choice's text.
func (c *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	chatMsgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMsgs = append(chatMsgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelID,
		Messages:    chatMsgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %v: %w", err, classifyOpenAIErr(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: response has no choices: %w", ErrMalformedOutput)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	return ErrTransport
}
