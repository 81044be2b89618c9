// Package source names evidence sources and assigns credibility priors.
package source

import (
	"strings"

	"github.com/agenthands/veritas/internal/core/model"
)

type entry struct {
	name        string
	credibility float64
}

var known = map[string]entry{
	// Regulators, governments and international bodies.
	"rbi.org.in":         {"RBI Official Site", 0.97},
	"npci.org.in":        {"NPCI", 0.95},
	"pib.gov.in":         {"Press Information Bureau", 0.95},
	"federalreserve.gov": {"Federal Reserve", 0.97},
	"who.int":            {"WHO", 0.95},
	"un.org":             {"United Nations", 0.95},
	"cdc.gov":            {"CDC", 0.95},

	// Fact-checkers.
	"snopes.com":     {"Snopes", 0.95},
	"politifact.com": {"PolitiFact", 0.95},
	"factcheck.org":  {"FactCheck.org", 0.95},
	"fullfact.org":   {"Full Fact", 0.95},
	"altnews.in":     {"Alt News", 0.95},
	"boomlive.in":    {"BOOM", 0.95},

	// Established news outlets.
	"reuters.com":        {"Reuters", 0.92},
	"apnews.com":         {"AP News", 0.92},
	"bbc.com":            {"BBC", 0.92},
	"bbc.co.uk":          {"BBC", 0.92},
	"nytimes.com":        {"The New York Times", 0.9},
	"theguardian.com":    {"The Guardian", 0.88},
	"washingtonpost.com": {"The Washington Post", 0.88},
	"aljazeera.com":      {"Al Jazeera", 0.85},
	"thehindu.com":       {"The Hindu", 0.85},
	"indianexpress.com":  {"The Indian Express", 0.85},
	"hindustantimes.com": {"Hindustan Times", 0.8},
	"timesofindia.com":   {"The Times of India", 0.8},
	"ndtv.com":           {"NDTV", 0.8},
	"cnn.com":            {"CNN", 0.85},
	"economictimes.com":  {"The Economic Times", 0.82},
	"livemint.com":       {"Mint", 0.82},

	// Social platforms; individual posts rank low.
	"twitter.com":   {"Twitter", 0.35},
	"x.com":         {"Twitter", 0.35},
	"nitter.net":    {"Twitter", 0.35},
	"instagram.com": {"Instagram", 0.3},
	"facebook.com":  {"Facebook", 0.3},
	"tiktok.com":    {"TikTok", 0.25},
	"reddit.com":    {"Reddit", 0.35},
	"youtube.com":   {"YouTube", 0.35},
}

var retrieverPlatforms = map[string]string{
	"twitter":          "twitter.com",
	"twitter_search":   "twitter.com",
	"x":                "x.com",
	"nitter":           "nitter.net",
	"instagram":        "instagram.com",
	"instagram_search": "instagram.com",
	"facebook":         "facebook.com",
	"tiktok":           "tiktok.com",
	"reddit":           "reddit.com",
	"youtube":          "youtube.com",
}

// Unknown is the prior for a source nothing is known about.
const Unknown = 0.5

func lookup(host string) (entry, bool) {
	for h := host; h != ""; {
		if e, ok := known[h]; ok {
			return e, true
		}
		dot := strings.IndexByte(h, '.')
		if dot == -1 {
			break
		}
		h = h[dot+1:]
	}
	return entry{}, false
}

func hostOf(ev model.EvidenceItem) string {
	if host := ev.Host(); host != "" {
		return host
	}
	return retrieverPlatforms[strings.ToLower(ev.Retriever)]
}

// Credibility is a prior in [0,1] for the evidence's source, used when the
// judgment oracle does not supply one.
func Credibility(ev model.EvidenceItem) float64 {
	host := hostOf(ev)
	if e, ok := lookup(host); ok {
		return adjustForMeta(e.credibility, ev.AdditionalMeta)
	}
	var score float64
	switch {
	case host == "":
		score = Unknown
	case strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov.") || strings.HasSuffix(host, ".mil"):
		score = 0.95
	case strings.HasSuffix(host, ".edu") || strings.Contains(host, ".ac.") || strings.Contains(host, ".edu."):
		score = 0.85
	case strings.HasSuffix(host, ".int"):
		score = 0.9
	case strings.HasSuffix(host, ".org") || strings.Contains(host, ".org."):
		score = 0.6
	default:
		score = Unknown
	}
	return adjustForMeta(score, ev.AdditionalMeta)
}

func adjustForMeta(score float64, meta *model.AdditionalMeta) float64 {
	if meta == nil {
		return score
	}
	switch strings.ToLower(meta.VerificationStatus) {
	case "verified", "official":
		if score < 0.7 {
			score = 0.7
		}
	}
	if meta.FactCheckRating != "" && score < 0.9 {
		score = 0.9
	}
	return score
}

// Name is the display name for the evidence's source: a known outlet name,
// the platform for social retrievers, else the bare domain.
func Name(ev model.EvidenceItem) string {
	host := hostOf(ev)
	if e, ok := lookup(host); ok {
		return e.name
	}
	if host != "" {
		return host
	}
	if ev.Retriever != "" {
		return ev.Retriever
	}
	return "unknown source"
}

// IsSocial reports whether the evidence comes from a social platform.
func IsSocial(ev model.EvidenceItem) bool {
	if _, ok := retrieverPlatforms[strings.ToLower(ev.Retriever)]; ok {
		return true
	}
	e, ok := lookup(hostOf(ev))
	return ok && e.credibility <= 0.35
}
