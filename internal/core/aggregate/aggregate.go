// Package aggregate turns the scored evidence of one claim into a
// ClaimFinding.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/agenthands/veritas/internal/core/common"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/core/source"
)

const (
	SupportThreshold    = 0.7
	ContradictThreshold = 0.3

	NoEvidenceFinding = "No relevant evidence found for this claim."
)

type Bucket int

const (
	Neutral Bucket = iota
	Supporting
	Contradicting
)

func (b Bucket) String() string {
	switch b {
	case Supporting:
		return "supporting"
	case Contradicting:
		return "contradicting"
	default:
		return "neutral"
	}
}

// Classify buckets one analysis. The supporting rule is checked first, so an
// item that entails and supports the claim is never counted against it.
func Classify(a model.EvidenceAnalysis) Bucket {
	s := a.Signals
	if (s.NLI.Label == model.NLIEntailment && s.Stance.Label == model.StanceSupport) || a.CombinedScore >= SupportThreshold {
		return Supporting
	}
	if s.NLI.Label == model.NLIContradiction || s.Stance.Label == model.StanceOppose || a.CombinedScore <= ContradictThreshold {
		return Contradicting
	}
	return Neutral
}

// TruthScore maps the weighted aggregates onto the truth table. Inside each
// band the score moves linearly with gap = support - contradict:
//
//	FALSE  gap in [-1, -0.4]   -> [0.0, 0.2]
//	TRUE   gap in [0.4, 1]     -> [0.8, 1.0]
//	MIXED  gap in [-0.3, 0.3]  -> [0.3, 0.7]
//
// Anything else is INCONCLUSIVE at 0.5.
func TruthScore(support, contradict float64) (float64, model.TruthLabel) {
	gap := support - contradict
	switch {
	case contradict > 0.6 && support < 0.2:
		return clamp(0.2*(gap+1)/0.6, 0, 0.2), model.TruthFalse
	case support > 0.6 && contradict < 0.2:
		return clamp(0.8+0.2*(gap-0.4)/0.6, 0.8, 1), model.TruthTrue
	case inBand(support) && inBand(contradict):
		return clamp(0.5+gap*(0.2/0.3), 0.3, 0.7), model.TruthMixed
	default:
		return 0.5, model.TruthInconclusive
	}
}

func inBand(v float64) bool {
	return v >= 0.3 && v <= 0.6
}

type Options struct {
	// ComprehensiveAnswer is the synthesized evidence summary for the run.
	// When set, the finding is the sentence of it that best matches the claim.
	ComprehensiveAnswer string
}

// Aggregate builds the finding for claim from the analyses produced for it.
// Analyses belonging to other claims are ignored, so the full pool of a run
// may be passed in. It never fails: a claim without relevant evidence yields
// an INCONCLUSIVE finding at 0.5.
func Aggregate(claim model.Claim, analyses []model.EvidenceAnalysis, opts Options) model.ClaimFinding {
	finding := model.ClaimFinding{
		ClaimID:   claim.ClaimID,
		ClaimText: claim.ClaimText,
		Sources:   []string{},
	}

	var buckets [3][]model.EvidenceAnalysis
	for _, a := range analyses {
		if a.ClaimID != claim.ClaimID {
			continue
		}
		b := Classify(a)
		buckets[b] = append(buckets[b], a)
	}
	supporting, contradicting, neutral := buckets[Supporting], buckets[Contradicting], buckets[Neutral]
	total := len(supporting) + len(contradicting) + len(neutral)

	finding.SupportingEvidenceCount = len(supporting)
	finding.ContradictingEvidenceCount = len(contradicting)
	finding.NeutralEvidenceCount = len(neutral)

	if total == 0 {
		finding.TruthScore = 0.5
		finding.Label = model.TruthInconclusive
		finding.Finding = NoEvidenceFinding
		return finding
	}

	var sw, cw float64
	for _, a := range supporting {
		sw += clamp(a.CombinedScore, 0, 1) * clamp(a.Signals.DomainCredibility, 0, 1)
	}
	for _, a := range contradicting {
		cw += (1 - clamp(a.CombinedScore, 0, 1)) * clamp(a.Signals.DomainCredibility, 0, 1)
	}
	finding.SupportWeighted = clamp(sw/float64(total), 0, 1)
	finding.ContradictWeighted = clamp(cw/float64(total), 0, 1)
	finding.TruthScore, finding.Label = TruthScore(finding.SupportWeighted, finding.ContradictWeighted)

	dominant := dominantBucket(finding, buckets)
	finding.Finding = findingText(claim, opts.ComprehensiveAnswer, dominant, buckets[dominant])

	contributing := append(append([]model.EvidenceAnalysis{}, supporting...), contradicting...)
	if len(contributing) == 0 {
		contributing = neutral
	}
	finding.SourceRefs = rankSources(contributing)
	for _, r := range finding.SourceRefs {
		finding.Sources = append(finding.Sources, r.Name)
	}
	return finding
}

func dominantBucket(f model.ClaimFinding, buckets [3][]model.EvidenceAnalysis) Bucket {
	switch {
	case f.Label == model.TruthTrue:
		return Supporting
	case f.Label == model.TruthFalse:
		return Contradicting
	case len(buckets[Supporting]) > 0 && f.SupportWeighted >= f.ContradictWeighted:
		return Supporting
	case len(buckets[Contradicting]) > 0:
		return Contradicting
	case len(buckets[Supporting]) > 0:
		return Supporting
	default:
		return Neutral
	}
}

func findingText(claim model.Claim, answer string, b Bucket, items []model.EvidenceAnalysis) string {
	if s := bestSentence(claim.ClaimText, answer); s != "" {
		return s
	}
	best, bestWeight := -1, -1.0
	for i, a := range items {
		if w := evidenceWeight(b, a); w > bestWeight {
			best, bestWeight = i, w
		}
	}
	if best < 0 {
		return NoEvidenceFinding
	}
	ev := items[best].Evidence
	if sentences := common.Sentences(ev.Snippet); len(sentences) > 0 {
		return sentences[0]
	}
	return strings.TrimSpace(ev.Snippet)
}

// evidenceWeight is how strongly an item speaks for its bucket.
func evidenceWeight(b Bucket, a model.EvidenceAnalysis) float64 {
	cred := a.Signals.DomainCredibility
	switch b {
	case Supporting:
		return a.CombinedScore * cred
	case Contradicting:
		return (1 - a.CombinedScore) * cred
	default:
		return cred
	}
}

func bestSentence(claimText, answer string) string {
	if strings.TrimSpace(answer) == "" {
		return ""
	}
	claimTokens := common.TokenSet(claimText)
	best, bestRatio := "", 0.0
	for _, s := range common.Sentences(answer) {
		shared, ratio := common.Overlap(claimTokens, common.TokenSet(s))
		if shared > 0 && ratio > bestRatio {
			best, bestRatio = s, ratio
		}
	}
	return best
}

// rankSources deduplicates source names, keeping the highest credibility
// and latest publication seen for each, and orders them by credibility then
// recency. Undated sources sort after dated ones of equal credibility.
func rankSources(items []model.EvidenceAnalysis) []model.SourceRef {
	index := make(map[string]int)
	var refs []model.SourceRef
	for _, a := range items {
		name := source.Name(a.Evidence)
		if name == "" {
			continue
		}
		published, _ := a.Evidence.PublishedTime()
		cred := clamp(a.Signals.DomainCredibility, 0, 1)
		if i, ok := index[name]; ok {
			if cred > refs[i].Credibility {
				refs[i].Credibility = cred
			}
			if published.After(refs[i].PublishedAt) {
				refs[i].PublishedAt = published
			}
			continue
		}
		index[name] = len(refs)
		refs = append(refs, model.SourceRef{Name: name, Credibility: cred, PublishedAt: published})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Credibility != refs[j].Credibility {
			return refs[i].Credibility > refs[j].Credibility
		}
		if !refs[i].PublishedAt.Equal(refs[j].PublishedAt) {
			return refs[i].PublishedAt.After(refs[j].PublishedAt)
		}
		return refs[i].Name < refs[j].Name
	})
	return refs
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
