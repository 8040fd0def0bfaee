package completions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultGroqBaseURL points the OpenAI-compatible client at Groq.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint
// (OpenAI itself, or Groq via its compatibility layer).
type OpenAIClient struct {
	client *goopenai.Client
	logger *slog.Logger
}

// NewOpenAIClient builds a gateway backend for an OpenAI-compatible API.
// baseURL may be empty for api.openai.com. The short client timeout keeps a
// slow provider from hanging a planning request; the caller degrades to a
// fallback instead.
func NewOpenAIClient(token, baseURL string, timeout time.Duration, logger *slog.Logger) (*OpenAIClient, error) {
	if token == "" {
		return nil, errors.New("missing completion API key")
	}
	cfg := goopenai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIClient{
		client: goopenai.NewClientWithConfig(cfg),
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, params Params) string {
	ctx, span, started := traceCompletion(ctx, "openai", params.Model, len(prompt))
	defer span.End()

	req := goopenai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: params.systemInstruction()},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	if params.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return finishCompletion(ctx, c.logger, span, started, "openai", "", err)
	}
	if len(resp.Choices) == 0 {
		return finishCompletion(ctx, c.logger, span, started, "openai", "", errors.New("no choices in completion response"))
	}
	return finishCompletion(ctx, c.logger, span, started, "openai", resp.Choices[0].Message.Content, nil)
}
