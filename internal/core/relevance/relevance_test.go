package relevance

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var claim = model.Claim{ClaimID: "c1", ClaimText: "RBI banned UPI payments nationwide"}

var pool = []model.EvidenceItem{
	{EvidenceID: "e1", Snippet: "The RBI has not banned UPI payments; the viral message is fake."},
	{EvidenceID: "e2", Snippet: "Monsoon rains lash Mumbai, local trains delayed."},
	{EvidenceID: "e3", Title: "UPI outage", Snippet: "Users reported failed transactions for two hours."},
}

func indices(ms []Match) []int {
	var out []int
	for _, m := range ms {
		out = append(out, m.Index)
	}
	return out
}

func TestLexicalSelect(t *testing.T) {
	matches, err := NewLexical(0.25).Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices(matches))
	assert.InDelta(t, 0.8, matches[0].Score, 1e-9)
}

func TestLexicalThreshold(t *testing.T) {
	// e3 shares only "upi" out of five claim tokens.
	matches, err := NewLexical(0.2).Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, indices(matches))
	assert.InDelta(t, 0.2, matches[1].Score, 1e-9)
}

func TestLexicalNoEvidence(t *testing.T) {
	matches, err := NewLexical(0).Select(context.Background(), claim, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLexicalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLexical(0).Select(ctx, claim, pool)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmbeddingSelect(t *testing.T) {
	emb := &MockEmbedder{Vectors: map[string][]float32{
		claim.ClaimText: {1, 0, 0},
		pool[0].Text():  {0.9, 0.1, 0},
		pool[1].Text():  {0, 1, 0},
		pool[2].Text():  {0.7, 0.7, 0},
	}}
	c := NewEmbedding(emb, 0.6, nil)

	matches, err := c.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, indices(matches))

	calls := emb.Calls
	_, err = c.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, calls, emb.Calls, "vectors are reused")
}

func TestEmbeddingFallsBackToLexical(t *testing.T) {
	c := NewEmbedding(&MockEmbedder{}, 0.6, NewLexical(0.25))
	matches, err := c.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices(matches))
}

func TestEmbeddingPerItemFallback(t *testing.T) {
	emb := &MockEmbedder{Vectors: map[string][]float32{
		claim.ClaimText: {1, 0},
		pool[1].Text():  {0, 1},
	}}
	c := NewEmbedding(emb, 0.6, NewLexical(0.25))
	matches, err := c.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices(matches))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{-1, 0}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
}

func TestLLMSelector(t *testing.T) {
	s := NewLLMSelector(&MockLLMClient{Response: `{"relevant": [2, 0, 2, 9]}`}, nil)
	matches, err := s.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, indices(matches))

	none := NewLLMSelector(&MockLLMClient{Response: `{"relevant": []}`}, nil)
	matches, err = none.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLLMSelectorFallback(t *testing.T) {
	s := NewLLMSelector(&MockLLMClient{Err: errors.New("overloaded")}, NewLexical(0.25))
	matches, err := s.Select(context.Background(), claim, pool)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices(matches))
}
