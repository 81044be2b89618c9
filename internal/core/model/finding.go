package model

import "time"

type TruthLabel string

const (
	TruthFalse        TruthLabel = "FALSE"
	TruthTrue         TruthLabel = "TRUE"
	TruthMixed        TruthLabel = "MIXED"
	TruthInconclusive TruthLabel = "INCONCLUSIVE"
)

type Verdict string

const (
	VerdictLikelyFalse  Verdict = "LIKELY_FALSE"
	VerdictLikelyTrue   Verdict = "LIKELY_TRUE"
	VerdictMixed        Verdict = "MIXED"
	VerdictInconclusive Verdict = "INCONCLUSIVE"
)

// SourceRef is a named source with the credibility it carried in a finding.
type SourceRef struct {
	Name        string
	Credibility float64
	PublishedAt time.Time
}

type ClaimFinding struct {
	ClaimID                    string      `json:"claim_id,omitempty"`
	ClaimText                  string      `json:"claim_text"`
	Finding                    string      `json:"finding"`
	Sources                    []string    `json:"sources"`
	TruthScore                 float64     `json:"truth_score"`
	Label                      TruthLabel  `json:"label"`
	SupportingEvidenceCount    int         `json:"supporting_evidence_count"`
	ContradictingEvidenceCount int         `json:"contradicting_evidence_count"`
	NeutralEvidenceCount       int         `json:"neutral_evidence_count"`
	SupportWeighted            float64     `json:"support_weighted"`
	ContradictWeighted         float64     `json:"contradict_weighted"`
	SourceRefs                 []SourceRef `json:"-"`
}

// MeanCredibility averages the credibility of the finding's sources. ok is
// false when the finding cites nothing.
func (f ClaimFinding) MeanCredibility() (mean float64, ok bool) {
	if len(f.SourceRefs) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range f.SourceRefs {
		sum += r.Credibility
	}
	return sum / float64(len(f.SourceRefs)), true
}

type MisinformationVerdict struct {
	OverallTruthScore        float64  `json:"overall_truth_score"`
	OverallConfidence        float64  `json:"overall_confidence"`
	MisinformationLikelihood float64  `json:"misinformation_likelihood"`
	Verdict                  Verdict  `json:"verdict"`
	PrimarySources           []string `json:"primary_sources"`
}

const VerifierVersion = "ensemble-v2.0"

// Report is the terminal artifact of a verification run.
type Report struct {
	RunID                   string                `json:"run_id,omitempty"`
	VerificationTimestamp   string                `json:"verification_timestamp"`
	ComprehensiveAnswer     string                `json:"comprehensive_answer,omitempty"`
	IndividualClaimFindings []ClaimFinding        `json:"individual_claim_findings"`
	MisinformationAnalysis  MisinformationVerdict `json:"misinformation_analysis"`
	VerifierVersion         string                `json:"verifier_version"`
	ProcessingNotes         string                `json:"processing_notes,omitempty"`
}
