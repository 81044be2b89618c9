package llm

import (
	"context"
)

// LLMClient produces a completion for a single prompt. Implementations are
// configured for deterministic, JSON-shaped output since every caller parses
// the response.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
