package completions

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genai"
)

// GeminiClient is the gateway backend for the Gemini API.
type GeminiClient struct {
	client *genai.Client
	logger *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, logger: logger}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string, params Params) string {
	ctx, span, started := traceCompletion(ctx, "gemini", params.Model, len(prompt))
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](params.Temperature),
		SystemInstruction: genai.NewContentFromText(params.systemInstruction(), genai.RoleUser),
	}
	if params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(params.MaxTokens)
	}
	if params.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	result, err := c.client.Models.GenerateContent(ctx, params.Model, genai.Text(prompt), config)
	if err != nil {
		return finishCompletion(ctx, c.logger, span, started, "gemini", "", err)
	}
	return finishCompletion(ctx, c.logger, span, started, "gemini", result.Text(), nil)
}
