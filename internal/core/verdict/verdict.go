// Package verdict combines the per-claim findings of a run into the
// misinformation verdict.
package verdict

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/model"
)

const (
	ConfidenceGate = 0.3
	FalseThreshold = 0.3
	TrueThreshold  = 0.7

	DefaultMaxPrimarySources = 8
	DefaultCredibilityBoost  = 0.2

	// Mean source credibility above this raises confidence.
	boostFloor = 0.7
)

type Options struct {
	MaxPrimarySources int
	// CredibilityBoost is the largest relative confidence increase, reached
	// when every cited source has credibility 1.
	CredibilityBoost float64
}

func DefaultOptions() Options {
	return Options{MaxPrimarySources: DefaultMaxPrimarySources, CredibilityBoost: DefaultCredibilityBoost}
}

func OptionsFromConfig(cfg config.ScoringConfig) Options {
	opts := DefaultOptions()
	if cfg.MaxPrimarySources > 0 {
		opts.MaxPrimarySources = cfg.MaxPrimarySources
	}
	if cfg.CredibilityBoost >= 0 {
		opts.CredibilityBoost = cfg.CredibilityBoost
	}
	return opts
}

// Synthesize requires exactly model.ClaimsPerRun well-formed findings and
// fails with an IncompleteFindings error otherwise.
func Synthesize(findings []model.ClaimFinding, opts Options) (model.MisinformationVerdict, error) {
	if err := validate(findings); err != nil {
		return model.MisinformationVerdict{}, err
	}
	if opts.MaxPrimarySources <= 0 {
		opts.MaxPrimarySources = DefaultMaxPrimarySources
	}

	var truth, gap float64
	for _, f := range findings {
		truth += f.TruthScore
		gap += math.Abs(f.SupportWeighted - f.ContradictWeighted)
	}
	n := float64(len(findings))
	truth = clamp01(truth / n)
	confidence := clamp01(boost(gap/n, findings, opts.CredibilityBoost))

	return model.MisinformationVerdict{
		OverallTruthScore:        truth,
		OverallConfidence:        confidence,
		MisinformationLikelihood: 1 - truth,
		Verdict:                  Decide(truth, confidence),
		PrimarySources:           PrimarySources(findings, opts.MaxPrimarySources),
	}, nil
}

// Decide applies the verdict gates in order; low confidence wins over any
// truth score.
func Decide(truth, confidence float64) model.Verdict {
	switch {
	case confidence < ConfidenceGate:
		return model.VerdictInconclusive
	case truth <= FalseThreshold:
		return model.VerdictLikelyFalse
	case truth >= TrueThreshold:
		return model.VerdictLikelyTrue
	default:
		return model.VerdictMixed
	}
}

// boost scales confidence up linearly with the mean credibility of cited
// sources above boostFloor. It never lowers confidence.
func boost(confidence float64, findings []model.ClaimFinding, maxBoost float64) float64 {
	if maxBoost <= 0 {
		return confidence
	}
	var sum float64
	var n int
	for _, f := range findings {
		if mean, ok := f.MeanCredibility(); ok {
			sum += mean
			n++
		}
	}
	if n == 0 {
		return confidence
	}
	mean := sum / float64(n)
	if mean <= boostFloor {
		return confidence
	}
	return confidence * (1 + maxBoost*(math.Min(mean, 1)-boostFloor)/(1-boostFloor))
}

// PrimarySources ranks the union of the findings' sources by how many
// findings cite them, then by the best credibility seen, then by first
// appearance.
func PrimarySources(findings []model.ClaimFinding, limit int) []string {
	type ranked struct {
		name        string
		count       int
		credibility float64
		order       int
	}
	byName := make(map[string]*ranked)
	var all []*ranked
	for _, f := range findings {
		cred := make(map[string]float64, len(f.SourceRefs))
		for _, r := range f.SourceRefs {
			if r.Credibility > cred[r.Name] {
				cred[r.Name] = r.Credibility
			}
		}
		seen := make(map[string]bool, len(f.Sources))
		for _, name := range f.Sources {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			r, ok := byName[name]
			if !ok {
				r = &ranked{name: name, order: len(all)}
				byName[name] = r
				all = append(all, r)
			}
			r.count++
			if cred[name] > r.credibility {
				r.credibility = cred[name]
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		if all[i].credibility != all[j].credibility {
			return all[i].credibility > all[j].credibility
		}
		return all[i].order < all[j].order
	})

	out := []string{}
	for _, r := range all {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.name)
	}
	return out
}

func validate(findings []model.ClaimFinding) error {
	if len(findings) != model.ClaimsPerRun {
		return model.NewError(model.KindIncompleteFindings,
			fmt.Sprintf("expected %d findings, got %d", model.ClaimsPerRun, len(findings)), nil)
	}
	for i, f := range findings {
		if strings.TrimSpace(f.ClaimText) == "" {
			return model.NewError(model.KindIncompleteFindings, fmt.Sprintf("finding %d has no claim text", i+1), nil)
		}
		if !unit(f.TruthScore) {
			return model.NewError(model.KindIncompleteFindings,
				fmt.Sprintf("finding %d has truth_score %v outside [0,1]", i+1, f.TruthScore), nil)
		}
		if !unit(f.SupportWeighted) || !unit(f.ContradictWeighted) {
			return model.NewError(model.KindIncompleteFindings,
				fmt.Sprintf("finding %d has weighted aggregates outside [0,1]", i+1), nil)
		}
	}
	return nil
}

func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
