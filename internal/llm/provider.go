package llm

import "context"

// CompletionRequest is a single text-completion call to a backing provider.
type CompletionRequest struct {
	Prompt string
	// System constrains provider output (strict JSON, question-only). Only
	// some backends take it as a true system message; others prepend it.
	System      string
	MaxTokens   int
	Temperature float32
}

// Provider is the interface implemented by LLM backends.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// ErrorKind classifies provider failures so callers branch on kind, never
// on message substrings.
type ErrorKind string

const (
	KindRateLimited     ErrorKind = "rate_limited"
	KindServerError     ErrorKind = "server_error"
	KindTransport       ErrorKind = "transport"
	KindInvalidResponse ErrorKind = "invalid_response"
)

// ProviderError is an error from an LLM provider call.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
