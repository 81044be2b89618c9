package verdict

import (
	"math"
	"testing"

	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func finding(text string, truth, sw, cw float64, sources ...model.SourceRef) model.ClaimFinding {
	f := model.ClaimFinding{
		ClaimText:          text,
		TruthScore:         truth,
		SupportWeighted:    sw,
		ContradictWeighted: cw,
		Sources:            []string{},
		SourceRefs:         sources,
	}
	for _, s := range sources {
		f.Sources = append(f.Sources, s.Name)
	}
	return f
}

func ref(name string, cred float64) model.SourceRef {
	return model.SourceRef{Name: name, Credibility: cred}
}

func TestSynthesizeLikelyFalse(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 0.1, 0.05, 0.7),
		finding("b", 0.15, 0.05, 0.65),
		finding("c", 0.2, 0.1, 0.6),
	}
	v, err := Synthesize(findings, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 0.15, v.OverallTruthScore, eps)
	assert.InDelta(t, (0.65+0.6+0.5)/3, v.OverallConfidence, eps)
	assert.Equal(t, model.VerdictLikelyFalse, v.Verdict)
	assert.InDelta(t, 1-v.OverallTruthScore, v.MisinformationLikelihood, eps)
}

func TestSynthesizeHighConfidenceSplitIsMixed(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 0.9, 0.85, 0.05),
		finding("b", 0.1, 0.05, 0.85),
		finding("c", 0.5, 0.45, 0.45),
	}
	v, err := Synthesize(findings, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, v.OverallTruthScore, eps)
	assert.GreaterOrEqual(t, v.OverallConfidence, ConfidenceGate)
	assert.Equal(t, model.VerdictMixed, v.Verdict)
}

func TestSynthesizeLowConfidenceIsInconclusive(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 0.5, 0.1, 0.05),
		finding("b", 0.45, 0.05, 0.1),
		finding("c", 0.5, 0, 0),
	}
	v, err := Synthesize(findings, DefaultOptions())
	require.NoError(t, err)

	assert.Less(t, v.OverallConfidence, ConfidenceGate)
	assert.Equal(t, model.VerdictInconclusive, v.Verdict)
}

func TestConfidenceGateWinsOverTruth(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 0.05, 0.1, 0.2),
		finding("b", 0.05, 0.1, 0.2),
		finding("c", 0.05, 0.1, 0.2),
	}
	v, err := Synthesize(findings, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.VerdictInconclusive, v.Verdict)
	assert.InDelta(t, 0.95, v.MisinformationLikelihood, eps)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		truth, confidence float64
		want              model.Verdict
	}{
		{0.1, 0.29, model.VerdictInconclusive},
		{0.3, 0.3, model.VerdictLikelyFalse},
		{0.31, 0.5, model.VerdictMixed},
		{0.69, 0.5, model.VerdictMixed},
		{0.7, 0.5, model.VerdictLikelyTrue},
		{1, 1, model.VerdictLikelyTrue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decide(tt.truth, tt.confidence), "truth=%v confidence=%v", tt.truth, tt.confidence)
	}
}

func TestCredibilityBoost(t *testing.T) {
	plain := []model.ClaimFinding{
		finding("a", 0.9, 0.5, 0),
		finding("b", 0.9, 0.5, 0),
		finding("c", 0.9, 0.5, 0),
	}
	credible := []model.ClaimFinding{
		finding("a", 0.9, 0.5, 0, ref("Reuters", 1)),
		finding("b", 0.9, 0.5, 0, ref("Reuters", 1)),
		finding("c", 0.9, 0.5, 0, ref("Reuters", 1)),
	}
	weak := []model.ClaimFinding{
		finding("a", 0.9, 0.5, 0, ref("Twitter", 0.3)),
		finding("b", 0.9, 0.5, 0, ref("Twitter", 0.3)),
		finding("c", 0.9, 0.5, 0, ref("Twitter", 0.3)),
	}

	p, err := Synthesize(plain, DefaultOptions())
	require.NoError(t, err)
	c, err := Synthesize(credible, DefaultOptions())
	require.NoError(t, err)
	w, err := Synthesize(weak, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, p.OverallConfidence, eps)
	assert.InDelta(t, 0.6, c.OverallConfidence, eps)
	assert.InDelta(t, 0.5, w.OverallConfidence, eps)

	off, err := Synthesize(credible, Options{MaxPrimarySources: 8})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, off.OverallConfidence, eps)
}

func TestConfidenceIsClamped(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 1, 1, 0, ref("RBI", 1)),
		finding("b", 1, 1, 0, ref("RBI", 1)),
		finding("c", 1, 1, 0, ref("RBI", 1)),
	}
	v, err := Synthesize(findings, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.OverallConfidence)
	assert.Equal(t, 0.0, v.MisinformationLikelihood)
}

func TestPrimarySourcesRanking(t *testing.T) {
	findings := []model.ClaimFinding{
		finding("a", 0.5, 0, 0, ref("Blog", 0.4), ref("Reuters", 0.92)),
		finding("b", 0.5, 0, 0, ref("Snopes", 0.95), ref("Blog", 0.4)),
		finding("c", 0.5, 0, 0, ref("BBC", 0.92), ref("Reuters", 0.9)),
	}
	assert.Equal(t, []string{"Reuters", "Blog", "Snopes", "BBC"}, PrimarySources(findings, 8))
	assert.Equal(t, []string{"Reuters", "Blog"}, PrimarySources(findings, 2))
}

func TestPrimarySourcesWithoutRefs(t *testing.T) {
	findings := []model.ClaimFinding{
		{ClaimText: "a", Sources: []string{"X", "Y"}},
		{ClaimText: "b", Sources: []string{"Y", "Y"}},
		{ClaimText: "c"},
	}
	assert.Equal(t, []string{"Y", "X"}, PrimarySources(findings, 8))
	assert.Equal(t, []string{}, PrimarySources(nil, 8))
}

func TestSynthesizeTruncatesPrimarySources(t *testing.T) {
	var refs []model.SourceRef
	for _, n := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"} {
		refs = append(refs, ref(n, 0.5))
	}
	findings := []model.ClaimFinding{
		finding("a", 0.5, 0.5, 0.5, refs...),
		finding("b", 0.5, 0.5, 0.5),
		finding("c", 0.5, 0.5, 0.5),
	}
	v, err := Synthesize(findings, Options{})
	require.NoError(t, err)
	assert.Len(t, v.PrimarySources, DefaultMaxPrimarySources)
	assert.Equal(t, "s1", v.PrimarySources[0])
}

func TestIncompleteFindings(t *testing.T) {
	ok := finding("a", 0.5, 0, 0)
	tests := []struct {
		name     string
		findings []model.ClaimFinding
	}{
		{"none", nil},
		{"two", []model.ClaimFinding{ok, ok}},
		{"four", []model.ClaimFinding{ok, ok, ok, ok}},
		{"nan truth", []model.ClaimFinding{ok, ok, finding("c", math.NaN(), 0, 0)}},
		{"truth above one", []model.ClaimFinding{ok, ok, finding("c", 1.2, 0, 0)}},
		{"negative weight", []model.ClaimFinding{ok, ok, finding("c", 0.5, -0.1, 0)}},
		{"empty claim text", []model.ClaimFinding{ok, ok, finding(" ", 0.5, 0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.findings, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrIncompleteFindings)

			var verr *model.VerificationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, model.KindIncompleteFindings, verr.Kind)
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.ScoringConfig{MaxPrimarySources: 5, CredibilityBoost: 0.1})
	assert.Equal(t, Options{MaxPrimarySources: 5, CredibilityBoost: 0.1}, opts)

	assert.Equal(t, DefaultOptions(), OptionsFromConfig(config.ScoringConfig{CredibilityBoost: -1}))
}
