package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type SocialMetrics struct {
	Platform  string `json:"platform"`
	Likes     *int   `json:"likes,omitempty"`
	Retweets  *int   `json:"retweets,omitempty"`
	Replies   *int   `json:"replies,omitempty"`
	Views     *int   `json:"views,omitempty"`
	Followers *int   `json:"followers,omitempty"`
}

type AdditionalMeta struct {
	SocialMetrics      *SocialMetrics `json:"social_metrics,omitempty"`
	Author             string         `json:"author,omitempty"`
	SourcedBy          string         `json:"sourced_by,omitempty"`
	FactCheckRating    string         `json:"fact_check_rating,omitempty"`
	VerificationStatus string         `json:"verification_status,omitempty"`
}

// EvidenceItem is one retrieved document or post. Snippet is the only field
// guaranteed to be set.
type EvidenceItem struct {
	EvidenceID     string          `json:"evidence_id"`
	QueryID        string          `json:"query_id"`
	Retriever      string          `json:"retriever"`
	URL            string          `json:"url,omitempty"`
	Title          string          `json:"title,omitempty"`
	Snippet        string          `json:"snippet"`
	PublishedAt    string          `json:"published_at,omitempty"`
	Domain         string          `json:"domain,omitempty"`
	RetrieverScore *float64        `json:"retriever_score,omitempty"`
	AdditionalMeta *AdditionalMeta `json:"additional_meta,omitempty"`
}

func (e EvidenceItem) Validate() error {
	if strings.TrimSpace(e.Snippet) == "" {
		return NewError(KindInvalidEvidence, fmt.Sprintf("evidence %q has no snippet text", e.EvidenceID), nil)
	}
	if e.RetrieverScore != nil && (*e.RetrieverScore < 0 || *e.RetrieverScore > 1) {
		return NewError(KindInvalidEvidence, fmt.Sprintf("evidence %q has retriever_score %v outside [0,1]", e.EvidenceID, *e.RetrieverScore), nil)
	}
	return nil
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PublishedTime parses PublishedAt. ok is false when it is absent or not a
// recognizable ISO-8601 value.
func (e EvidenceItem) PublishedTime() (t time.Time, ok bool) {
	s := strings.TrimSpace(e.PublishedAt)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Host returns the evidence domain, falling back to the URL host. The
// "www." prefix is stripped and the result lower-cased.
func (e EvidenceItem) Host() string {
	host := strings.TrimSpace(e.Domain)
	if host == "" && e.URL != "" {
		if u, err := url.Parse(e.URL); err == nil {
			host = u.Hostname()
		}
	}
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// Text is the content considered when judging relevance.
func (e EvidenceItem) Text() string {
	if e.Title == "" {
		return e.Snippet
	}
	return e.Title + ". " + e.Snippet
}
