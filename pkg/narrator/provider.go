// Package narrator turns computed analytics figures into short prose
// summaries via an LLM backend. Narration is strictly decorative: every
// failure degrades to the deterministic figures, never to an error.
package narrator

import (
	"context"
	"fmt"
	"strings"
)

// CompletionRequest is the minimal prompt shape the narrator needs.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider defines the behavior required for a narration backend.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// newProvider builds the configured provider.
func newProvider(opts Options) (Provider, error) {
	switch strings.ToLower(opts.Provider) {
	case "openai":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai narration requires an API key")
		}
		return NewOpenAIProvider(opts.APIKey, opts.BaseURL, opts.Model), nil
	case "anthropic":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("anthropic narration requires an API key")
		}
		return NewAnthropicProvider(opts.APIKey, opts.BaseURL, opts.Model), nil
	case "ollama":
		return NewOllamaProvider(opts.BaseURL, opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown narration provider %q", opts.Provider)
	}
}
