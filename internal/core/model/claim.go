package model

import (
	"fmt"
	"strings"
)

type RiskHint string

const (
	RiskLow    RiskHint = "low"
	RiskMedium RiskHint = "medium"
	RiskHigh   RiskHint = "high"
)

// ClaimsPerRun is the number of atomic claims every verification run scores.
const ClaimsPerRun = 3

type Claim struct {
	ClaimID   string   `json:"claim_id"`
	ClaimText string   `json:"claim_text"`
	RiskHint  RiskHint `json:"risk_hint"`
}

// ExtractedClaims matches the claim extractor's JSON output.
type ExtractedClaims struct {
	Claims []Claim `json:"claims"`
}

// QueryItem is one search query derived from the claims.
type QueryItem struct {
	QID   string `json:"qid"`
	Query string `json:"query"`
	Notes string `json:"notes,omitempty"`
}

type GeneratedQueries struct {
	Queries []QueryItem `json:"queries"`
}

// ValidateClaims enforces the ClaimSet contract: exactly three claims with
// text, unique ids and a known risk hint. An empty risk hint is accepted and
// treated as medium.
func ValidateClaims(claims []Claim) error {
	if len(claims) != ClaimsPerRun {
		return NewError(KindInvalidClaimCount, fmt.Sprintf("expected %d claims, got %d", ClaimsPerRun, len(claims)), nil)
	}
	seen := make(map[string]struct{}, len(claims))
	for i, c := range claims {
		if strings.TrimSpace(c.ClaimText) == "" {
			return NewError(KindInvalidClaimCount, fmt.Sprintf("claim %d has empty text", i+1), nil)
		}
		if c.ClaimID != "" {
			if _, dup := seen[c.ClaimID]; dup {
				return NewError(KindInvalidClaimCount, fmt.Sprintf("duplicate claim id %q", c.ClaimID), nil)
			}
			seen[c.ClaimID] = struct{}{}
		}
		switch c.RiskHint {
		case "", RiskLow, RiskMedium, RiskHigh:
		default:
			return NewError(KindInvalidClaimCount, fmt.Sprintf("claim %d has unknown risk hint %q", i+1, c.RiskHint), nil)
		}
	}
	return nil
}

// CombinedClaim joins the claims into a single statement. It only drives
// query generation; scoring always uses the individual claims.
func CombinedClaim(claims []Claim) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		t := strings.TrimSpace(c.ClaimText)
		t = strings.TrimRight(t, ".")
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + "."
}
