package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/common"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/llm"
)

// DefaultClaimsPrompt receives the source text.
const DefaultClaimsPrompt = `You are a strict, deterministic claim extraction assistant.
Extract EXACTLY 3 of the most important, atomic, verifiable claims from the text below.
- Prefer significant, verifiable and impactful claims (policy changes, major events, decisions).
- Each claim is one short sentence covering one fact; the 3 claims must not overlap.
- Skip opinions, rhetorical questions and anything that cannot be checked.
- risk_hint is "high" for bans, deaths, emergencies, orders, evacuations, public-health or policy actions and large numeric impacts; "medium" for political, financial or potentially harmful claims; "low" for routine facts.

Return JSON only:
{"claims": [{"claim_id": "c1", "claim_text": "...", "risk_hint": "low|medium|high"}]}

Text:
%s`

// DefaultQueriesPrompt receives the combined claim and the query budget.
const DefaultQueriesPrompt = `You write web search queries for fact-checking.
Claim: %s

Write at most %d search-engine-friendly queries, split across three goals:
1. direct verification of the claim as stated (entities, dates, figures),
2. context and details (official statements, circulars, announcements),
3. disambiguation (fact-checks, hoax reports, "fake" or "misleading" coverage).
Use concrete terms, dates and quoted phrases.

Return JSON only:
{"queries": [{"qid": "q1", "query": "...", "notes": "what this query checks"}]}`

// DefaultAnswerPrompt receives the combined claim and the numbered evidence.
const DefaultAnswerPrompt = `You summarize retrieved evidence for a fact-check.
Claim: %s

Evidence:
%s
Write a short, neutral answer (at most 5 sentences) stating what the evidence establishes about each part of the claim.
State facts directly, name the sources that establish them, and say plainly when the evidence does not cover something.
Do not speculate beyond the evidence.

Return JSON only:
{"answer": "..."}`

type Extractor struct {
	LLM     llm.LLMClient
	Prompts config.ExtractionPrompts
}

func NewExtractor(llmClient llm.LLMClient, prompts config.ExtractionPrompts) *Extractor {
	if prompts.Claims == "" {
		prompts.Claims = DefaultClaimsPrompt
	}
	if prompts.Queries == "" {
		prompts.Queries = DefaultQueriesPrompt
	}
	if prompts.Answer == "" {
		prompts.Answer = DefaultAnswerPrompt
	}
	return &Extractor{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ExtractClaims returns exactly model.ClaimsPerRun claims from text. Missing
// ids are filled in as c1, c2, c3.
func (e *Extractor) ExtractClaims(ctx context.Context, text string) ([]model.Claim, error) {
	prompt := fmt.Sprintf(e.Prompts.Claims, text)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate claims: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedClaims](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}

	claims := result.Claims
	for i := range claims {
		claims[i].ClaimText = strings.TrimSpace(claims[i].ClaimText)
		claims[i].RiskHint = model.RiskHint(strings.ToLower(strings.TrimSpace(string(claims[i].RiskHint))))
		if claims[i].ClaimID == "" {
			claims[i].ClaimID = fmt.Sprintf("c%d", i+1)
		}
	}
	if err := model.ValidateClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateQueries derives up to limit distinct queries for the combined
// claim. Query ids are renumbered q1..qN in output order.
func (e *Extractor) GenerateQueries(ctx context.Context, combinedClaim string, limit int) ([]model.QueryItem, error) {
	prompt := fmt.Sprintf(e.Prompts.Queries, combinedClaim, limit)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate queries: %w", err)
	}

	result, err := common.ParseJSON[model.GeneratedQueries](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract queries: %w", err)
	}

	seen := make(map[string]bool)
	var queries []model.QueryItem
	for _, q := range result.Queries {
		q.Query = strings.TrimSpace(q.Query)
		key := strings.ToLower(q.Query)
		if q.Query == "" || seen[key] {
			continue
		}
		if limit > 0 && len(queries) == limit {
			break
		}
		seen[key] = true
		q.QID = fmt.Sprintf("q%d", len(queries)+1)
		queries = append(queries, q)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries generated for %q", combinedClaim)
	}
	return queries, nil
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// Answer writes the comprehensive answer for the combined claim from the
// gathered evidence.
func (e *Extractor) Answer(ctx context.Context, combinedClaim string, evidence []model.EvidenceItem) (string, error) {
	if len(evidence) == 0 {
		return "", nil
	}

	var docList strings.Builder
	for i, ev := range evidence {
		content := ev.Text()
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Fprintf(&docList, "[%d] (%s) %s\n", i+1, ev.Host(), content)
	}

	prompt := fmt.Sprintf(e.Prompts.Answer, combinedClaim, docList.String())

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	result, err := common.ParseJSON[answerResponse](response)
	if err != nil {
		return "", fmt.Errorf("failed to extract answer: %w", err)
	}
	return strings.TrimSpace(result.Answer), nil
}
