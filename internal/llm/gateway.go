package llm

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/metrics"
)

// Mode selects the output constraint added for non-primary tiers.
type Mode int

const (
	// ModeQuestion constrains fallback providers to a single question.
	ModeQuestion Mode = iota
	// ModeJSON constrains fallback providers to a bare JSON object.
	ModeJSON
)

const (
	systemQuestionOnly = "You are an AI interviewer. Respond with exactly one short, friendly interview question and nothing else. No meta-commentary."
	systemJSONOnly     = "You are a JSON-only response bot. Always respond with valid JSON format only. Never include any text before or after the JSON object."
)

// Request is one gateway invocation.
type Request struct {
	Prompt      string
	Mode        Mode
	MaxTokens   int
	Temperature float32
	// Accept validates a tier's output before it is returned. A non-nil
	// error escalates to the next tier.
	Accept func(text string) error
}

// Result carries the winning tier's output. UsingFallback is true whenever
// a non-primary tier produced the text, so callers can surface a notice.
type Result struct {
	Text          string
	Provider      string
	UsingFallback bool
}

// Gateway tries an ordered list of providers, one attempt per tier, no
// retries within a tier. The final static tier is caller-specific and
// lives with the caller, not here.
type Gateway struct {
	tiers  []Provider
	logger *zap.Logger
}

func NewGateway(logger *zap.Logger, tiers ...Provider) *Gateway {
	g := &Gateway{logger: logger}
	for _, t := range tiers {
		if t != nil {
			g.tiers = append(g.tiers, t)
		}
	}
	return g
}

func systemFor(mode Mode) string {
	if mode == ModeJSON {
		return systemJSONOnly
	}
	return systemQuestionOnly
}

// Complete walks the tiers in order and returns the first accepted output.
func (g *Gateway) Complete(ctx context.Context, req Request) (*Result, error) {
	if len(g.tiers) == 0 {
		return nil, errors.New("no providers configured")
	}

	var lastErr error
	for i, provider := range g.tiers {
		creq := CompletionRequest{
			Prompt:      req.Prompt,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		}
		if i > 0 {
			creq.System = systemFor(req.Mode)
		}

		text, err := provider.Complete(ctx, creq)
		if err != nil {
			g.logger.Warn("provider call failed",
				zap.String("provider", provider.Name()),
				zap.Error(err))
			lastErr = err
			continue
		}

		if req.Accept != nil {
			if err := req.Accept(text); err != nil {
				g.logger.Warn("provider response rejected",
					zap.String("provider", provider.Name()),
					zap.Error(err))
				lastErr = &ProviderError{
					Provider: provider.Name(),
					Kind:     KindInvalidResponse,
					Message:  "response failed validation",
					Err:      err,
				}
				continue
			}
		}

		metrics.ProviderTierUsed.WithLabelValues(provider.Name()).Inc()
		return &Result{
			Text:          text,
			Provider:      provider.Name(),
			UsingFallback: i > 0,
		}, nil
	}

	return nil, lastErr
}
