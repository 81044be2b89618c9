package server

import (
	"context"
	"sync"

	"github.com/agenthands/veritas/internal/archive"
	"github.com/agenthands/veritas/internal/core/model"
)

type MockLLM struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

type MockEmbedder struct{}

func (MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

type MockArchive struct {
	Saved   []*model.Report
	SaveErr error
	Runs    []archive.RunSummary
}

func (m *MockArchive) Save(ctx context.Context, report *model.Report) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, report)
	return nil
}

func (m *MockArchive) Get(ctx context.Context, runID string) (*model.Report, error) {
	for _, r := range m.Saved {
		if r.RunID == runID {
			return r, nil
		}
	}
	return nil, archive.ErrNotFound
}

func (m *MockArchive) Recent(ctx context.Context, limit int) ([]archive.RunSummary, error) {
	return m.Runs, nil
}
