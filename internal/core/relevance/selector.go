package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/llm"
)

// LLMSelector asks a model which candidates discuss the claim. Any failure
// falls back to the Fallback classifier.
type LLMSelector struct {
	LLM      llm.LLMClient
	Fallback Classifier
}

func NewLLMSelector(client llm.LLMClient, fallback Classifier) *LLMSelector {
	if fallback == nil {
		fallback = NewLexical(0)
	}
	return &LLMSelector{LLM: client, Fallback: fallback}
}

func (s *LLMSelector) Select(ctx context.Context, claim model.Claim, candidates []model.EvidenceItem) ([]Match, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var docList strings.Builder
	for i, ev := range candidates {
		content := ev.Text()
		if len(content) > 300 {
			content = content[:300] + "..."
		}
		fmt.Fprintf(&docList, "[%d] %s\n", i, content)
	}

	prompt := fmt.Sprintf(`You are filtering evidence for a fact-check.
Claim: %s

Evidence:
%s
List the evidence items that discuss this specific claim (its entities, event or figures), whether they support it or not.
Return JSON: {"relevant": [indices]}. Return {"relevant": []} if none apply.`, claim.ClaimText, docList.String())

	resp, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("relevance selection failed, using fallback", "claim_id", claim.ClaimID, "error", err)
		return s.Fallback.Select(ctx, claim, candidates)
	}

	var out []Match
	seen := make(map[int]bool)
	for _, i := range parseIndices(resp) {
		if i < 0 || i >= len(candidates) || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, Match{Index: i, Score: 1})
	}
	return out, nil
}

var indexPattern = regexp.MustCompile(`\d+`)

func parseIndices(s string) []int {
	if open := strings.IndexByte(s, '['); open != -1 {
		if end := strings.IndexByte(s[open:], ']'); end != -1 {
			s = s[open : open+end]
		}
	}
	var indices []int
	for _, m := range indexPattern.FindAllString(s, -1) {
		if i, err := strconv.Atoi(m); err == nil {
			indices = append(indices, i)
		}
	}
	return indices
}
