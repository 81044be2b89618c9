package llm

import (
	"context"
	"testing"

	"github.com/agenthands/veritas/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientOpenAI(t *testing.T) {
	gen, emb, err := NewClient(context.Background(), config.LLMConfig{Provider: "OpenAI", APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, gen)
	assert.NotNil(t, emb)
	assert.Equal(t, "text-embedding-3-small", gen.(*OpenAIClient).embeddingModel)
}

func TestNewClientClaudeHasNoEmbedder(t *testing.T) {
	gen, emb, err := NewClient(context.Background(), config.LLMConfig{Provider: "claude", APIKey: "k", Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, gen)
	assert.Nil(t, emb)
}

func TestNewClientOllama(t *testing.T) {
	gen, emb, err := NewClient(context.Background(), config.LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434/"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, gen)
	assert.Nil(t, emb)

	_, emb, err = NewClient(context.Background(), config.LLMConfig{Provider: "ollama", Model: "llama3", EmbeddingModel: "nomic-embed-text", BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.NotNil(t, emb)
}

func TestNewClientUnsupported(t *testing.T) {
	_, _, err := NewClient(context.Background(), config.LLMConfig{Provider: "palm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider: palm")
}
