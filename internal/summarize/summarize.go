// Package summarize produces short article summaries via one of three
// interchangeable strategies: a premium LLM, a hosted inference API, or
// local statistical extraction. The chain never fails outward.
package summarize

import (
	"context"
	"log/slog"

	"newsagent/internal/config"
)

// Summarizer is a single summarization strategy.
type Summarizer interface {
	// Summarize condenses body into a short summary.
	Summarize(ctx context.Context, body string) (string, error)

	// Method returns the strategy's human-readable name.
	Method() string
}

// Chain wraps a primary strategy with the local extractive fallback so that
// summarization always yields some text. The premium strategy falls back
// directly to local, never to the hosted API.
type Chain struct {
	primary  Summarizer
	fallback *Extractive
	logger   *slog.Logger
}

// NewChain selects the strategy for this process based on available
// credentials: premium LLM, then hosted inference, then local extraction.
func NewChain(cfg *config.SummarizerConfig, logger *slog.Logger) *Chain {
	local := NewExtractive()

	var primary Summarizer
	switch {
	case cfg.OpenAIAPIKey != "":
		primary = NewOpenAI(cfg, logger)
	case cfg.HuggingFaceAPIKey != "":
		primary = NewHuggingFace(cfg, logger)
	}

	chain := &Chain{
		primary:  primary,
		fallback: local,
		logger:   logger.With("component", "summarizer"),
	}
	chain.logger.Info("summarization configured", "method", chain.Method())
	return chain
}

// Summarize produces a summary, absorbing any primary-strategy failure by
// falling back to local extraction.
func (c *Chain) Summarize(ctx context.Context, body string) string {
	if c.primary != nil {
		summary, err := c.primary.Summarize(ctx, body)
		if err == nil && summary != "" {
			return summary
		}
		if err != nil {
			c.logger.Warn("summarization fell back to local", "method", c.primary.Method(), "error", err)
		}
	}

	summary, err := c.fallback.Summarize(ctx, body)
	if err != nil || summary == "" {
		// The statistical pipeline itself came up empty; use the simple cut.
		return simpleExtractive(body)
	}
	return summary
}

// Method reports the active strategy's name.
func (c *Chain) Method() string {
	if c.primary != nil {
		return c.primary.Method()
	}
	return c.fallback.Method()
}
