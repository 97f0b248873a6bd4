package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/CodeXGautam/Vocintera/internal/llm"
)

// Client wraps the Google GenAI SDK as an llm.Provider.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Kind:     llm.KindTransport,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		// the Gemini API path here takes a single user turn, so the
		// output constraint rides at the top of the prompt
		prompt = req.System + "\n\n" + prompt
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Kind:     llm.KindServerError,
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Kind:     llm.KindInvalidResponse,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Kind:     llm.KindInvalidResponse,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Kind:     llm.KindInvalidResponse,
			Message:  "Empty response generated",
		}
	}

	return text, nil
}

func (c *Client) Name() string {
	return "gemini"
}
