package model

type NLILabel string

const (
	NLIEntailment    NLILabel = "entailment"
	NLIContradiction NLILabel = "contradiction"
	NLINeutral       NLILabel = "neutral"
)

type StanceLabel string

const (
	StanceSupport StanceLabel = "support"
	StanceOppose  StanceLabel = "oppose"
	StanceNeutral StanceLabel = "neutral"
)

// NLIResult and StanceResult carry a confidence in the label, not a directed
// support magnitude.
type NLIResult struct {
	Label     NLILabel `json:"label"`
	Score     float64  `json:"score"`
	Rationale string   `json:"rationale,omitempty"`
}

type StanceResult struct {
	Label     StanceLabel `json:"label"`
	Score     float64     `json:"score"`
	Rationale string      `json:"rationale,omitempty"`
}

type TemporalAlignment struct {
	OK                 bool   `json:"ok"`
	Reason             string `json:"reason,omitempty"`
	TimeDifferenceDays *int   `json:"time_difference_days,omitempty"`
}

// NoTemporalConstraints is the alignment used when a claim carries no date
// or timeframe. It never lowers a score.
func NoTemporalConstraints() *TemporalAlignment {
	return &TemporalAlignment{OK: true, Reason: "no temporal constraints"}
}

type SignalSet struct {
	NLI               NLIResult          `json:"nli"`
	Stance            StanceResult       `json:"stance"`
	DomainCredibility float64            `json:"domain_credibility"`
	TemporalAlignment *TemporalAlignment `json:"temporal_alignment,omitempty"`
	// Degraded marks a neutral default substituted after the oracle failed.
	Degraded bool `json:"-"`
}

// NeutralSignalSet is the fallback used when the oracle cannot produce a
// judgment.
func NeutralSignalSet() SignalSet {
	return SignalSet{
		NLI:               NLIResult{Label: NLINeutral, Score: 0.5},
		Stance:            StanceResult{Label: StanceNeutral, Score: 0.5},
		DomainCredibility: 0.5,
		TemporalAlignment: NoTemporalConstraints(),
		Degraded:          true,
	}
}

// EvidenceAnalysis is one (claim, evidence) pair after signal extraction and
// combination.
type EvidenceAnalysis struct {
	ClaimID       string       `json:"claim_id"`
	Evidence      EvidenceItem `json:"evidence"`
	Signals       SignalSet    `json:"signals"`
	CombinedScore float64      `json:"combined_score"`
	Relevance     float64      `json:"relevance"`
}
