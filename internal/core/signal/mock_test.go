package signal

import (
	"context"
	"sync"
	"time"

	"github.com/agenthands/veritas/internal/cache"
	"github.com/agenthands/veritas/internal/core/model"
)

type MockLLMClient struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// scriptedOracle returns errs in order, then s.
type scriptedOracle struct {
	mu    sync.Mutex
	errs  []error
	s     model.SignalSet
	calls int
	block bool
}

func (o *scriptedOracle) Judge(ctx context.Context, req JudgmentRequest) (model.SignalSet, error) {
	o.mu.Lock()
	o.calls++
	block := o.block
	var err error
	if len(o.errs) > 0 {
		err = o.errs[0]
		o.errs = o.errs[1:]
	}
	o.mu.Unlock()

	if block {
		<-ctx.Done()
		return model.SignalSet{}, ctx.Err()
	}
	if err != nil {
		return model.SignalSet{}, err
	}
	return o.s, nil
}

func (o *scriptedOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}
