package signal

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMOracleJudge(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "```json\n" + `{
		"nli": {"label": "Contradiction", "score": 0.92, "rationale": "RBI denied the ban"},
		"stance": {"label": "deny", "score": 0.84},
		"domain_credibility": 0.95,
		"temporal_alignment": {"ok": false, "reason": "published 3 days earlier", "time_difference_days": 3}
	}` + "\n```"}

	oracle := NewLLMOracle(mockLLM, "", 0)
	ev := model.EvidenceItem{EvidenceID: "e1", Retriever: "google_search", Domain: "rbi.org.in", Snippet: "RBI has not banned UPI.", PublishedAt: "2025-11-24T10:00:00Z"}

	s, err := oracle.Judge(context.Background(), JudgmentRequest{ClaimText: "RBI banned UPI nationwide on Nov 27", Evidence: ev})
	require.NoError(t, err)
	assert.Equal(t, model.NLIContradiction, s.NLI.Label)
	assert.Equal(t, 0.92, s.NLI.Score)
	assert.Equal(t, "RBI denied the ban", s.NLI.Rationale)
	assert.Equal(t, model.StanceOppose, s.Stance.Label)
	assert.Equal(t, 0.95, s.DomainCredibility)
	require.NotNil(t, s.TemporalAlignment)
	assert.False(t, s.TemporalAlignment.OK)
	require.NotNil(t, s.TemporalAlignment.TimeDifferenceDays)
	assert.Equal(t, 3, *s.TemporalAlignment.TimeDifferenceDays)

	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "RBI banned UPI nationwide on Nov 27")
	assert.Contains(t, mockLLM.Prompts[0], "RBI has not banned UPI.")
	assert.Contains(t, mockLLM.Prompts[0], "rbi.org.in")
	assert.Contains(t, mockLLM.Prompts[0], "2025-11-24T10:00:00Z")
}

func TestLLMOracleFillsMissingCredibilityFromPrior(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"nli": {"label": "neutral", "score": 0.6}, "stance": {"label": "neutral", "score": 0.6}}`}
	oracle := NewLLMOracle(mockLLM, "", 0)

	s, err := oracle.Judge(context.Background(), JudgmentRequest{
		ClaimText: "claim",
		Evidence:  model.EvidenceItem{EvidenceID: "e1", Domain: "reuters.com", Snippet: "text"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.92, s.DomainCredibility)
	assert.Nil(t, s.TemporalAlignment)
}

func TestLLMOracleMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "I cannot help with that.",
		"bad nli label": `{"nli": {"label": "maybe", "score": 0.5}, "stance": {"label": "support", "score": 0.5}}`,
		"bad stance":    `{"nli": {"label": "neutral", "score": 0.5}, "stance": {"label": "shrug", "score": 0.5}}`,
		"score range":   `{"nli": {"label": "neutral", "score": 1.5}, "stance": {"label": "support", "score": 0.5}}`,
		"credibility":   `{"nli": {"label": "neutral", "score": 0.5}, "stance": {"label": "support", "score": 0.5}, "domain_credibility": 2}`,
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			oracle := NewLLMOracle(&MockLLMClient{Response: resp}, "", 0)
			_, err := oracle.Judge(context.Background(), JudgmentRequest{ClaimText: "c", Evidence: model.EvidenceItem{Snippet: "s"}})
			assert.ErrorIs(t, err, model.ErrOracleMalformedResponse)
		})
	}
}

func TestLLMOracleGenerateError(t *testing.T) {
	oracle := NewLLMOracle(&MockLLMClient{Err: errors.New("boom")}, "", 0)
	_, err := oracle.Judge(context.Background(), JudgmentRequest{ClaimText: "c", Evidence: model.EvidenceItem{Snippet: "s"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NotErrorIs(t, err, model.ErrOracleMalformedResponse)
}

func TestLLMOracleRateLimiterHonoursCancellation(t *testing.T) {
	oracle := NewLLMOracle(&MockLLMClient{Response: `{}`}, "", 0.001)
	ctx := context.Background()
	req := JudgmentRequest{ClaimText: "c", Evidence: model.EvidenceItem{Snippet: "s"}}

	// First call consumes the only token.
	_, _ = oracle.Judge(ctx, req)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := oracle.Judge(cancelled, req)
	assert.ErrorContains(t, err, "rate limiter")
}

func TestParseLabels(t *testing.T) {
	nli, ok := ParseNLILabel(" Entails ")
	assert.True(t, ok)
	assert.Equal(t, model.NLIEntailment, nli)

	_, ok = ParseNLILabel("")
	assert.False(t, ok)

	stance, ok := ParseStanceLabel("AGAINST")
	assert.True(t, ok)
	assert.Equal(t, model.StanceOppose, stance)

	stance, ok = ParseStanceLabel("discuss")
	assert.True(t, ok)
	assert.Equal(t, model.StanceNeutral, stance)
}

func TestHasTemporalReference(t *testing.T) {
	yes := []string{
		"RBI banned UPI nationwide on Nov 27",
		"The law was passed in 2019",
		"Schools will close tomorrow",
		"Prices rose last month",
		"The rally happened on 12/03",
		"Elections were held on May 5",
		"The bridge collapsed three days ago",
	}
	no := []string{
		"RBI banned UPI nationwide",
		"The minister may resign",
		"Drinking water cures cancer",
		"The market fell sharply",
	}
	for _, c := range yes {
		assert.True(t, HasTemporalReference(c), c)
	}
	for _, c := range no {
		assert.False(t, HasTemporalReference(c), c)
	}
}
