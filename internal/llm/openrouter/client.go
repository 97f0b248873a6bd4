package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CodeXGautam/Vocintera/internal/llm"
)

// Client talks to the OpenRouter chat-completions API. OpenRouter is the
// secondary tier behind Gemini; there is no Go SDK, so this is a plain
// HTTP client.
type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     llm.KindInvalidResponse,
			Message:  "Failed to encode request",
			Err:      err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     llm.KindTransport,
			Message:  "Failed to build request",
			Err:      err,
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", c.config.Referer)
	httpReq.Header.Set("X-Title", c.config.Title)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     llm.KindTransport,
			Message:  "Request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := llm.KindServerError
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = llm.KindRateLimited
		}
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     kind,
			Message:  fmt.Sprintf("OpenRouter API error: %d", resp.StatusCode),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     llm.KindInvalidResponse,
			Message:  "Failed to decode response",
			Err:      err,
		}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &llm.ProviderError{
			Provider: "openrouter",
			Kind:     llm.KindInvalidResponse,
			Message:  "Invalid response structure from OpenRouter API",
		}
	}

	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) Name() string {
	return "openrouter"
}
