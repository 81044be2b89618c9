package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/core/relevance"
	"github.com/agenthands/veritas/internal/core/signal"
)

// MockRelevance maps claim IDs to the evidence IDs relevant to them.
type MockRelevance struct {
	ByClaim map[string][]string
}

func (m *MockRelevance) Select(ctx context.Context, claim model.Claim, candidates []model.EvidenceItem) ([]relevance.Match, error) {
	var out []relevance.Match
	for _, id := range m.ByClaim[claim.ClaimID] {
		for i, ev := range candidates {
			if ev.EvidenceID == id {
				out = append(out, relevance.Match{Index: i, Score: 1})
			}
		}
	}
	return out, nil
}

// FailingOracle always errors.
type FailingOracle struct{}

func (FailingOracle) Judge(ctx context.Context, req signal.JudgmentRequest) (model.SignalSet, error) {
	return model.SignalSet{}, errors.New("oracle unavailable")
}

// BlockingOracle waits for ctx and reports when the first call starts.
type BlockingOracle struct {
	Started chan struct{}
	once    sync.Once
}

func (o *BlockingOracle) Judge(ctx context.Context, req signal.JudgmentRequest) (model.SignalSet, error) {
	o.once.Do(func() { close(o.Started) })
	<-ctx.Done()
	return model.SignalSet{}, ctx.Err()
}

// CountingOracle records the peak number of concurrent calls.
type CountingOracle struct {
	Signals model.SignalSet
	Delay   time.Duration

	mu       sync.Mutex
	inFlight int
	Peak     int
}

func (o *CountingOracle) Judge(ctx context.Context, req signal.JudgmentRequest) (model.SignalSet, error) {
	o.mu.Lock()
	o.inFlight++
	if o.inFlight > o.Peak {
		o.Peak = o.inFlight
	}
	o.mu.Unlock()

	time.Sleep(o.Delay)

	o.mu.Lock()
	o.inFlight--
	o.mu.Unlock()
	return o.Signals, nil
}

type MockClaimer struct {
	Claims []model.Claim
	Err    error
}

func (m *MockClaimer) ExtractClaims(ctx context.Context, text string) ([]model.Claim, error) {
	return m.Claims, m.Err
}

type MockQueryGenerator struct {
	Queries  []model.QueryItem
	Combined string
	Limit    int
}

func (m *MockQueryGenerator) GenerateQueries(ctx context.Context, combinedClaim string, limit int) ([]model.QueryItem, error) {
	m.Combined = combinedClaim
	m.Limit = limit
	return m.Queries, nil
}

type MockAnswerer struct {
	Response string
	Err      error
	Evidence []model.EvidenceItem
}

func (m *MockAnswerer) Answer(ctx context.Context, combinedClaim string, evidence []model.EvidenceItem) (string, error) {
	m.Evidence = evidence
	return m.Response, m.Err
}
