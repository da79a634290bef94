// internal/common/reasoning/groq.go
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"archai-workers/internal/common/config"
	apphttp "archai-workers/internal/common/http"
)

// GroqClient talks to an OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	http        *apphttp.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewGroqClient(cfg config.ReasoningConfig) *GroqClient {
	return &GroqClient{
		http:        apphttp.NewClient(cfg.MaxRetries),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (g *GroqClient) Name() string { return "groq:" + g.model }

func (g *GroqClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if system == "" {
		system = DefaultSystemPrompt
	}
	req := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	var resp chatResponse
	err := g.http.PostJSON(ctx, g.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + g.apiKey}, req, &resp)
	if err != nil {
		if errors.Is(err, apphttp.ErrRequestTimeout) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmpty
	}
	return resp.Choices[0].Message.Content, nil
}
