package openrouter

import (
	"errors"
	"os"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// holds OpenRouter-specific configuration
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Referer string
	Title   string
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY environment variable is required")
	}

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "mistralai/mistral-small-3.2-24b-instruct:free"
	}

	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	referer := os.Getenv("OPENROUTER_REFERER")
	if referer == "" {
		referer = "http://localhost:3000"
	}

	return &Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: baseURL,
		Referer: referer,
		Title:   "Vocintera Interview App",
	}, nil
}
