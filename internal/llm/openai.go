package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AzureOpenAIClient generates text against an Azure OpenAI deployment
// using the chat completions API.
type AzureOpenAIClient struct {
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	projectID  string
	httpClient *http.Client
}

// NewAzureOpenAIClient creates an Azure OpenAI backed client.
func NewAzureOpenAIClient(cfg ProviderConfig) (*AzureOpenAIClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("openai endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = "gpt-4o_2024-05-13"
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-06-01"
	}

	return &AzureOpenAIClient{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		apiKey:     cfg.APIKey,
		projectID:  cfg.ProjectID,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

type chatRequest struct {
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as a single user message and returns the
// first choice's content.
func (c *AzureOpenAIClient) Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	body, err := json.Marshal(chatRequest{
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	if c.projectID != "" {
		req.Header.Set("projectId", c.projectID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
