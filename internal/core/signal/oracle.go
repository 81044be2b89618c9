package signal

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/agenthands/veritas/internal/core/common"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/core/source"
	"github.com/agenthands/veritas/internal/llm"
)

// JudgmentRequest is what the oracle sees for one (claim, evidence) pair.
type JudgmentRequest struct {
	ClaimText string
	Evidence  model.EvidenceItem
}

// JudgmentOracle produces the raw NLI, stance, credibility and temporal
// judgments for a pair. A local classifier ensemble or a remote LLM can sit
// behind it.
type JudgmentOracle interface {
	Judge(ctx context.Context, req JudgmentRequest) (model.SignalSet, error)
}

// DefaultJudgePrompt receives claim, passage, domain, published_at and
// retriever.
const DefaultJudgePrompt = `You are a fact-checking evidence analyst. Judge how the passage relates to the claim.

Claim: %s

Passage: %s

Source domain: %s
Published at: %s
Retriever: %s

Return one JSON object with exactly these fields:
{
  "nli": {"label": "entailment|contradiction|neutral", "score": 0.0-1.0, "rationale": "short reason"},
  "stance": {"label": "support|oppose|neutral", "score": 0.0-1.0, "rationale": "short reason"},
  "domain_credibility": 0.0-1.0,
  "temporal_alignment": {"ok": true|false, "reason": "short reason", "time_difference_days": integer or null}
}

Rules:
- nli is the logical relationship: entailment if the passage confirms the claim, contradiction if it refutes it, neutral otherwise.
- stance is the author's position toward the claim, independent of nli.
- scores are your confidence in the chosen label.
- domain_credibility: official government, central bank and fact-check domains 0.9-1.0; established news 0.7-0.9; local or niche outlets 0.5-0.7; unknown blogs 0.3-0.5; unverified social posts 0.2-0.4.
- temporal_alignment: if the claim has no date or timeframe, use {"ok": true, "reason": "no temporal constraints in claim"}. Otherwise ok is false when the passage is about a different date or predates the event.
Output JSON only.`

type oracleResponse struct {
	NLI struct {
		Label     string  `json:"label"`
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	} `json:"nli"`
	Stance struct {
		Label     string  `json:"label"`
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	} `json:"stance"`
	DomainCredibility *float64                 `json:"domain_credibility"`
	TemporalAlignment *model.TemporalAlignment `json:"temporal_alignment"`
}

// LLMOracle asks a generative model for all four judgments in one call.
type LLMOracle struct {
	LLM     llm.LLMClient
	Prompt  string
	limiter *rate.Limiter
}

// NewLLMOracle builds an oracle over client. An empty prompt selects
// DefaultJudgePrompt; requestsPerSecond <= 0 disables rate limiting.
func NewLLMOracle(client llm.LLMClient, prompt string, requestsPerSecond float64) *LLMOracle {
	if prompt == "" {
		prompt = DefaultJudgePrompt
	}
	o := &LLMOracle{LLM: client, Prompt: prompt}
	if requestsPerSecond > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return o
}

func (o *LLMOracle) Judge(ctx context.Context, req JudgmentRequest) (model.SignalSet, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return model.SignalSet{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	ev := req.Evidence
	published := ev.PublishedAt
	if published == "" {
		published = "unknown"
	}
	domain := ev.Host()
	if domain == "" {
		domain = "unknown"
	}
	prompt := fmt.Sprintf(o.Prompt, req.ClaimText, ev.Text(), domain, published, ev.Retriever)

	response, err := o.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.SignalSet{}, fmt.Errorf("failed to generate judgment: %w", err)
	}

	parsed, err := common.ParseJSON[oracleResponse](response)
	if err != nil {
		return model.SignalSet{}, model.NewError(model.KindOracleMalformedResponse, "unparseable judgment", err)
	}

	return toSignalSet(parsed, ev)
}

func toSignalSet(r oracleResponse, ev model.EvidenceItem) (model.SignalSet, error) {
	nli, ok := ParseNLILabel(r.NLI.Label)
	if !ok {
		return model.SignalSet{}, model.NewError(model.KindOracleMalformedResponse, fmt.Sprintf("unknown nli label %q", r.NLI.Label), nil)
	}
	stance, ok := ParseStanceLabel(r.Stance.Label)
	if !ok {
		return model.SignalSet{}, model.NewError(model.KindOracleMalformedResponse, fmt.Sprintf("unknown stance label %q", r.Stance.Label), nil)
	}
	if !inUnit(r.NLI.Score) || !inUnit(r.Stance.Score) {
		return model.SignalSet{}, model.NewError(model.KindOracleMalformedResponse, fmt.Sprintf("label score outside [0,1]: nli=%v stance=%v", r.NLI.Score, r.Stance.Score), nil)
	}

	credibility := source.Credibility(ev)
	if r.DomainCredibility != nil {
		if !inUnit(*r.DomainCredibility) {
			return model.SignalSet{}, model.NewError(model.KindOracleMalformedResponse, fmt.Sprintf("domain_credibility %v outside [0,1]", *r.DomainCredibility), nil)
		}
		credibility = *r.DomainCredibility
	}

	return model.SignalSet{
		NLI:               model.NLIResult{Label: nli, Score: r.NLI.Score, Rationale: r.NLI.Rationale},
		Stance:            model.StanceResult{Label: stance, Score: r.Stance.Score, Rationale: r.Stance.Rationale},
		DomainCredibility: credibility,
		TemporalAlignment: r.TemporalAlignment,
	}, nil
}

// ParseNLILabel accepts the canonical labels and the common synonyms models
// return.
func ParseNLILabel(s string) (model.NLILabel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entailment", "entails", "entailed", "entail", "supports", "supported":
		return model.NLIEntailment, true
	case "contradiction", "contradicts", "contradicted", "contradict", "refutes", "refuted":
		return model.NLIContradiction, true
	case "neutral", "unrelated", "insufficient", "not enough info", "nei":
		return model.NLINeutral, true
	}
	return "", false
}

func ParseStanceLabel(s string) (model.StanceLabel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "support", "supports", "agree", "agrees", "favor", "for":
		return model.StanceSupport, true
	case "oppose", "opposes", "deny", "denies", "refute", "refutes", "disagree", "disagrees", "against":
		return model.StanceOppose, true
	case "neutral", "comment", "query", "discuss", "unrelated":
		return model.StanceNeutral, true
	}
	return "", false
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
