package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/metrics"
)

type Claimer interface {
	ExtractClaims(ctx context.Context, text string) ([]model.Claim, error)
}

type QueryGenerator interface {
	GenerateQueries(ctx context.Context, combinedClaim string, limit int) ([]model.QueryItem, error)
}

// Answerer writes the comprehensive answer from the gathered evidence.
type Answerer interface {
	Answer(ctx context.Context, combinedClaim string, evidence []model.EvidenceItem) (string, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query model.QueryItem) ([]model.EvidenceItem, error)
}

// RetrieverFunc adapts a function to Retriever.
type RetrieverFunc func(ctx context.Context, query model.QueryItem) ([]model.EvidenceItem, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, query model.QueryItem) ([]model.EvidenceItem, error) {
	return f(ctx, query)
}

type GatherOptions struct {
	MaxQueries      int
	MaxPerQuery     int
	PerQueryTimeout time.Duration
}

func GatherOptionsFromConfig(cfg config.RetrievalConfig) GatherOptions {
	return GatherOptions{
		MaxQueries:      cfg.MaxQueries,
		MaxPerQuery:     cfg.MaxPerQuery,
		PerQueryTimeout: cfg.PerQueryTimeout.Duration,
	}
}

// Gather runs one retrieval task per query concurrently and merges the
// results in query order once all of them finish. A failing or timed-out
// query contributes nothing. Items are tagged with their query, capped per
// query, deduplicated by URL and evidence ID and given an evidence ID when missing.
func Gather(ctx context.Context, r Retriever, queries []model.QueryItem, opts GatherOptions) ([]model.EvidenceItem, error) {
	if opts.MaxQueries > 0 && len(queries) > opts.MaxQueries {
		queries = queries[:opts.MaxQueries]
	}

	perQuery := make([][]model.EvidenceItem, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			qctx := ctx
			if opts.PerQueryTimeout > 0 {
				var cancel context.CancelFunc
				qctx, cancel = context.WithTimeout(ctx, opts.PerQueryTimeout)
				defer cancel()
			}
			items, err := r.Retrieve(qctx, q)
			if err != nil {
				metrics.RetrievalFailures.Inc()
				slog.Warn("retrieval failed", "qid", q.QID, "query", q.Query, "error", err)
				return nil
			}
			if opts.MaxPerQuery > 0 && len(items) > opts.MaxPerQuery {
				items = items[:opts.MaxPerQuery]
			}
			perQuery[i] = items
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []model.EvidenceItem
	seenURL := make(map[string]bool)
	seenID := make(map[string]bool)
	for i, items := range perQuery {
		for _, ev := range items {
			if key := urlKey(ev.URL); key != "" {
				if seenURL[key] {
					continue
				}
				seenURL[key] = true
			}
			if ev.EvidenceID != "" {
				if seenID[ev.EvidenceID] {
					continue
				}
				seenID[ev.EvidenceID] = true
			}
			if ev.QueryID == "" {
				ev.QueryID = queries[i].QID
			}
			if ev.EvidenceID == "" {
				ev.EvidenceID = uuid.New().String()
			}
			merged = append(merged, ev)
		}
	}
	return merged, nil
}

func urlKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimRight(s, "/")
}

// Pipeline runs a whole verification from source text: claims, one unified
// query set for the combined claim, concurrent retrieval, an optional
// comprehensive answer, then scoring.
type Pipeline struct {
	Claimer   Claimer
	Queries   QueryGenerator
	Retriever Retriever
	Answerer  Answerer
	Verifier  *Verifier
	Gather    GatherOptions
}

func (p *Pipeline) Run(ctx context.Context, text string) (*model.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty input text")
	}

	claims, err := p.Claimer.ExtractClaims(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("claim extraction: %w", err)
	}
	if err := model.ValidateClaims(claims); err != nil {
		return nil, err
	}

	combined := model.CombinedClaim(claims)
	queries, err := p.Queries.GenerateQueries(ctx, combined, p.Gather.MaxQueries)
	if err != nil {
		return nil, fmt.Errorf("query generation: %w", err)
	}

	evidence, err := Gather(ctx, p.Retriever, queries, p.Gather)
	if err != nil {
		return nil, err
	}
	slog.Info("evidence gathered", "queries", len(queries), "items", len(evidence))

	var answer string
	if p.Answerer != nil {
		answer, err = p.Answerer.Answer(ctx, combined, evidence)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("comprehensive answer failed", "error", err)
			answer = ""
		}
	}

	return p.Verifier.Verify(ctx, VerifyInput{
		Claims:              claims,
		Evidence:            evidence,
		ComprehensiveAnswer: answer,
	})
}
