// Package ai implements the text-generation collaborators of the decision
// backend: comparison extraction from free text, natural-language refinement
// of an existing comparison, and semantic preference mapping. All three share
// one narrow Generator seam so the HTTP layer and tests never depend on a
// concrete model provider.
//
// The collaborators are the only suspending operations in the system: each
// issues one bounded request with no retry. Callers decide what a failure
// means (extraction/refinement surface it; preference mapping silently falls
// back to the heuristic in internal/prefs).
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ErrMalformedResponse indicates the model returned text that could not be
// decoded into the expected JSON shape.
var ErrMalformedResponse = errors.New("malformed model response")

// ErrUnavailable indicates no Generator is configured (e.g. missing API key).
var ErrUnavailable = errors.New("ai: no generator configured")

// Generator produces a completion for a single prompt. Implementations must
// honor the context for cancellation and timeouts.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// googleGenerator adapts a langchaingo Gemini model to the Generator seam.
type googleGenerator struct {
	llm llms.Model
}

// NewGoogleGenerator builds a Gemini-backed Generator. The model name follows
// the provider's identifiers (e.g. "gemini-2.5-flash").
func NewGoogleGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, errors.New("ai: api key is required")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &googleGenerator{llm: llm}, nil
}

// Generate runs a single-prompt completion with a low temperature; the
// collaborators need structured JSON, not creativity.
func (g *googleGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.2))
}

// Client bundles the three collaborators over a shared Generator.
type Client struct {
	Gen Generator

	// Timeout bounds each model call; zero disables the extra deadline and
	// relies on the caller's context.
	Timeout time.Duration
}

// generate applies the client timeout and delegates to the Generator.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.Gen == nil {
		return "", ErrUnavailable
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.Gen.Generate(ctx, prompt)
}
