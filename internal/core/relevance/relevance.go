// Package relevance decides which evidence items pertain to a given claim.
package relevance

import (
	"context"

	"github.com/agenthands/veritas/internal/core/common"
	"github.com/agenthands/veritas/internal/core/model"
)

// Match is an evidence item judged relevant to a claim, by index into the
// candidate slice, with a relevance score in [0,1].
type Match struct {
	Index int
	Score float64
}

type Classifier interface {
	Select(ctx context.Context, claim model.Claim, candidates []model.EvidenceItem) ([]Match, error)
}

const (
	DefaultLexicalThreshold = 0.25
	DefaultMinShared        = 3
)

// Lexical keeps evidence whose title and snippet share enough content
// tokens with the claim: at least Threshold of the claim's tokens, or
// MinShared tokens outright for long claims.
type Lexical struct {
	Threshold float64
	MinShared int
}

func NewLexical(threshold float64) *Lexical {
	if threshold <= 0 {
		threshold = DefaultLexicalThreshold
	}
	return &Lexical{Threshold: threshold, MinShared: DefaultMinShared}
}

func (l *Lexical) Select(ctx context.Context, claim model.Claim, candidates []model.EvidenceItem) ([]Match, error) {
	claimTokens := common.TokenSet(claim.ClaimText)
	var out []Match
	for i, ev := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if score, ok := l.score(claimTokens, ev); ok {
			out = append(out, Match{Index: i, Score: score})
		}
	}
	return out, nil
}

func (l *Lexical) score(claimTokens map[string]struct{}, ev model.EvidenceItem) (float64, bool) {
	shared, ratio := common.Overlap(claimTokens, common.TokenSet(ev.Text()))
	if shared == 0 {
		return 0, false
	}
	minShared := l.MinShared
	if minShared <= 0 {
		minShared = DefaultMinShared
	}
	return ratio, ratio >= l.Threshold || shared >= minShared
}
