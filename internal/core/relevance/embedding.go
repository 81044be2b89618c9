package relevance

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/llm"
)

const DefaultEmbeddingThreshold = 0.55

// Embedding keeps evidence whose embedding is close to the claim's. When
// the embedder fails the Fallback classifier decides instead.
type Embedding struct {
	Embedder  llm.EmbedderClient
	Threshold float64
	Fallback  Classifier

	mu      sync.Mutex
	vectors map[string][]float32
}

func NewEmbedding(embedder llm.EmbedderClient, threshold float64, fallback Classifier) *Embedding {
	if threshold <= 0 {
		threshold = DefaultEmbeddingThreshold
	}
	if fallback == nil {
		fallback = NewLexical(0)
	}
	return &Embedding{
		Embedder:  embedder,
		Threshold: threshold,
		Fallback:  fallback,
		vectors:   make(map[string][]float32),
	}
}

func (e *Embedding) Select(ctx context.Context, claim model.Claim, candidates []model.EvidenceItem) ([]Match, error) {
	claimVec, err := e.embed(ctx, claim.ClaimText)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("claim embedding failed, using fallback relevance", "claim_id", claim.ClaimID, "error", err)
		return e.Fallback.Select(ctx, claim, candidates)
	}

	var out []Match
	for i, ev := range candidates {
		vec, err := e.embed(ctx, ev.Text())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fb, ferr := e.Fallback.Select(ctx, claim, []model.EvidenceItem{ev})
			if ferr != nil {
				return nil, ferr
			}
			for _, m := range fb {
				out = append(out, Match{Index: i, Score: m.Score})
			}
			continue
		}
		sim := Cosine(claimVec, vec)
		if sim >= e.Threshold {
			out = append(out, Match{Index: i, Score: sim})
		}
	}
	return out, nil
}

func (e *Embedding) embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	v, ok := e.vectors[text]
	e.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := e.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.vectors[text] = v
	e.mu.Unlock()
	return v, nil
}

// Cosine returns the cosine similarity clamped to [0,1]. Mismatched or zero
// vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, sim))
}
