package signal

import (
	"context"
	"sync"

	"github.com/agenthands/veritas/internal/core/model"
)

// StaticOracle returns judgments from a table keyed by evidence ID, falling
// back to Default. It is safe for concurrent use.
type StaticOracle struct {
	mu       sync.Mutex
	ByID     map[string]model.SignalSet
	Default  model.SignalSet
	Requests []JudgmentRequest
}

func (o *StaticOracle) Judge(ctx context.Context, req JudgmentRequest) (model.SignalSet, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Requests = append(o.Requests, req)
	if s, ok := o.ByID[req.Evidence.EvidenceID]; ok {
		return s, nil
	}
	return o.Default, nil
}

func (o *StaticOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Requests)
}
