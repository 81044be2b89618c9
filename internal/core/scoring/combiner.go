// Package scoring turns a SignalSet into one directed score in [0,1].
package scoring

import (
	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/model"
)

type Weights struct {
	NLI         float64
	Stance      float64
	Credibility float64
	Temporal    float64
}

// DefaultWeights is the canonical weighting used at aggregation time.
var DefaultWeights = Weights{NLI: 0.45, Stance: 0.30, Credibility: 0.20, Temporal: 0.05}

func WeightsFromConfig(cfg config.ScoringConfig) Weights {
	return Weights{
		NLI:         cfg.NLIWeight,
		Stance:      cfg.StanceWeight,
		Credibility: cfg.CredibilityWeight,
		Temporal:    cfg.TemporalWeight,
	}
}

// Normalized holds the four signals on the directed [0,1] scale where 1
// means support for the claim.
type Normalized struct {
	NLI         float64
	Stance      float64
	Credibility float64
	Temporal    float64
}

func NLIUnit(label model.NLILabel) float64 {
	switch label {
	case model.NLIEntailment:
		return 1.0
	case model.NLIContradiction:
		return 0.0
	default:
		return 0.5
	}
}

func StanceUnit(label model.StanceLabel) float64 {
	switch label {
	case model.StanceSupport:
		return 1.0
	case model.StanceOppose:
		return 0.0
	default:
		return 0.5
	}
}

// TemporalUnit is 1.0 for aligned or absent temporal information and 0.5 for
// misaligned evidence.
func TemporalUnit(t *model.TemporalAlignment) float64 {
	if t == nil || t.OK {
		return 1.0
	}
	return 0.5
}

func Normalize(s model.SignalSet) Normalized {
	return Normalized{
		NLI:         NLIUnit(s.NLI.Label) * clamp01(s.NLI.Score),
		Stance:      StanceUnit(s.Stance.Label) * clamp01(s.Stance.Score),
		Credibility: clamp01(s.DomainCredibility),
		Temporal:    TemporalUnit(s.TemporalAlignment),
	}
}

// Combine is the weighted sum of the normalized signals, clamped to [0,1].
func (w Weights) Combine(s model.SignalSet) float64 {
	n := Normalize(s)
	sum := w.NLI*n.NLI + w.Stance*n.Stance + w.Credibility*n.Credibility + w.Temporal*n.Temporal
	return clamp01(sum)
}

// Combine uses DefaultWeights.
func Combine(s model.SignalSet) float64 {
	return DefaultWeights.Combine(s)
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
