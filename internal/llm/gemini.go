package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Gemini calls the Google Generative Language REST API.
type Gemini struct {
	http    *resty.Client
	apiKey  string
	modelID string
}

// NewGemini creates the Gemini provider.
func NewGemini(apiKey, modelID string) *Gemini {
	if modelID == "" {
		modelID = defaultGeminiModel
	}
	return &Gemini{
		http:    resty.New().SetBaseURL(geminiBaseURL).SetTimeout(90 * time.Second),
		apiKey:  apiKey,
		modelID: modelID,
	}
}

func (c *Gemini) Name() string { return "gemini" }

// Gemini wire shapes. The response is normalized to plain text before it
// leaves this file.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the request and extracts the first candidate's text.
func (c *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: req.System}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == model.RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	var parsed geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&parsed).
		SetError(&parsed).
		Post(fmt.Sprintf("/models/%s:generateContent", c.modelID))
	if err != nil {
		return "", fmt.Errorf("gemini: %v: %w", err, ErrTransport)
	}
	if resp.StatusCode() != 200 {
		msg := resp.String()
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("gemini: status %d: %s: %w", resp.StatusCode(), msg, classifyStatus(resp.StatusCode(), msg))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: response has no candidates: %w", ErrMalformedOutput)
	}

	text := ""
	for _, p := range parsed.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}
