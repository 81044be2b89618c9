package relevance

import (
	"context"
	"errors"
)

type MockLLMClient struct {
	Response string
	Err      error
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockEmbedder maps known texts to vectors; unknown texts fail.
type MockEmbedder struct {
	Vectors map[string][]float32
	Calls   int
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if v, ok := m.Vectors[text]; ok {
		return v, nil
	}
	return nil, errors.New("no vector")
}
