package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient generates text using Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt and returns the response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	config := &genai.GenerateContentConfig{}
	if maxOutputTokens > 0 {
		config.MaxOutputTokens = int32(maxOutputTokens)
	}

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini response contained no text")
	}
	return text, nil
}
