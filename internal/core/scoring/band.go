package scoring

type Band int

const (
	StrongContradiction Band = iota
	ModerateContradiction
	Unclear
	ModerateSupport
	StrongSupport
)

func (b Band) String() string {
	switch b {
	case StrongContradiction:
		return "strong contradiction"
	case ModerateContradiction:
		return "moderate contradiction"
	case Unclear:
		return "neutral/unclear"
	case ModerateSupport:
		return "moderate support"
	case StrongSupport:
		return "strong support"
	}
	return "unknown"
}

// BandOf maps a combined score onto its interpretation band. Lower bounds
// are inclusive.
func BandOf(score float64) Band {
	switch {
	case score >= 0.8:
		return StrongSupport
	case score >= 0.6:
		return ModerateSupport
	case score >= 0.4:
		return Unclear
	case score >= 0.2:
		return ModerateContradiction
	default:
		return StrongContradiction
	}
}
