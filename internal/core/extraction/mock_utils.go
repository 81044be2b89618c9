package extraction

import (
	"context"
)

// MockLLMClient replays Responses in order, then keeps returning Response.
// Every prompt it receives is recorded.
type MockLLMClient struct {
	Responses []string
	Response  string
	Err       error
	Prompts   []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		next := m.Responses[0]
		m.Responses = m.Responses[1:]
		return next, nil
	}
	return m.Response, nil
}
