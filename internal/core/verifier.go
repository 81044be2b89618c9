// Package core wires the scoring stages into verification runs.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core/aggregate"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/core/relevance"
	"github.com/agenthands/veritas/internal/core/scoring"
	"github.com/agenthands/veritas/internal/core/signal"
	"github.com/agenthands/veritas/internal/core/verdict"
	"github.com/agenthands/veritas/internal/metrics"
)

const DefaultConcurrency = 8

// VerifyInput is everything the scoring core needs for one run.
type VerifyInput struct {
	Claims              []model.Claim        `json:"claims"`
	Evidence            []model.EvidenceItem `json:"evidence"`
	ComprehensiveAnswer string               `json:"comprehensive_answer,omitempty"`
}

type Verifier struct {
	Signals     *signal.Extractor
	Relevance   relevance.Classifier
	Weights     scoring.Weights
	Verdict     verdict.Options
	Concurrency int

	UUIDGenerator func() string
	Clock         func() time.Time
}

func NewVerifier(extractor *signal.Extractor, classifier relevance.Classifier, cfg *config.Config) *Verifier {
	v := &Verifier{
		Signals:       extractor,
		Relevance:     classifier,
		Weights:       scoring.DefaultWeights,
		Verdict:       verdict.DefaultOptions(),
		Concurrency:   DefaultConcurrency,
		UUIDGenerator: func() string { return uuid.New().String() },
		Clock:         time.Now,
	}
	if cfg != nil {
		v.Weights = scoring.WeightsFromConfig(cfg.Scoring)
		v.Verdict = verdict.OptionsFromConfig(cfg.Scoring)
		if cfg.Concurrency.Oracle > 0 {
			v.Concurrency = cfg.Concurrency.Oracle
		}
	}
	if v.Relevance == nil {
		threshold := 0.0
		if cfg != nil {
			threshold = cfg.Scoring.RelevanceThreshold
		}
		v.Relevance = relevance.NewLexical(threshold)
	}
	return v
}

// pair is one (claim, relevant evidence) unit of work.
type pair struct {
	claim     int
	evidence  int
	relevance float64
}

// runStats feeds the processing notes.
type runStats struct {
	excluded   int
	duplicates int
	degraded   int
	noEvidence []string
}

// Verify scores the claims against the evidence pool and returns the run
// report. Invalid evidence is excluded and oracle failures degrade to
// neutral judgments; a wrong claim count, malformed findings or a cancelled
// ctx fail the run and no report is returned.
func (v *Verifier) Verify(ctx context.Context, in VerifyInput) (*model.Report, error) {
	start := time.Now()
	report, err := v.verify(ctx, in)
	if err != nil {
		metrics.RunFailures.WithLabelValues(failureKind(err)).Inc()
		slog.Error("verification failed", "kind", failureKind(err), "error", err)
		return nil, err
	}
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	metrics.Verdicts.WithLabelValues(string(report.MisinformationAnalysis.Verdict)).Inc()
	slog.Info("verification complete",
		"run_id", report.RunID,
		"verdict", report.MisinformationAnalysis.Verdict,
		"truth", report.MisinformationAnalysis.OverallTruthScore,
		"confidence", report.MisinformationAnalysis.OverallConfidence,
		"duration", time.Since(start))
	return report, nil
}

func (v *Verifier) verify(ctx context.Context, in VerifyInput) (*model.Report, error) {
	claims := assignClaimIDs(in.Claims)
	if err := model.ValidateClaims(claims); err != nil {
		return nil, err
	}

	var stats runStats
	pool := v.admit(in.Evidence, &stats)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairs, err := v.selectRelevant(ctx, claims, pool)
	if err != nil {
		return nil, err
	}

	analyses, err := v.extract(ctx, claims, pool, pairs, &stats)
	if err != nil {
		return nil, err
	}

	findings := make([]model.ClaimFinding, len(claims))
	var g errgroup.Group
	for i, c := range claims {
		g.Go(func() error {
			findings[i] = aggregate.Aggregate(c, analyses, aggregate.Options{ComprehensiveAnswer: in.ComprehensiveAnswer})
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, f := range findings {
		slog.Debug("claim aggregated",
			"claim_id", f.ClaimID,
			"label", f.Label,
			"truth", f.TruthScore,
			"supporting", f.SupportingEvidenceCount,
			"contradicting", f.ContradictingEvidenceCount,
			"neutral", f.NeutralEvidenceCount)
		if f.SupportingEvidenceCount+f.ContradictingEvidenceCount+f.NeutralEvidenceCount == 0 {
			stats.noEvidence = append(stats.noEvidence, f.ClaimID)
		}
	}

	mv, err := verdict.Synthesize(findings, v.Verdict)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		RunID:                   v.newID(),
		VerificationTimestamp:   v.now().UTC().Format(time.RFC3339),
		ComprehensiveAnswer:     in.ComprehensiveAnswer,
		IndividualClaimFindings: findings,
		MisinformationAnalysis:  mv,
		VerifierVersion:         model.VerifierVersion,
		ProcessingNotes:         processingNotes(stats, mv),
	}, nil
}

// admit drops evidence without usable text and repeated evidence IDs, and
// assigns IDs to items that lack one.
func (v *Verifier) admit(items []model.EvidenceItem, stats *runStats) []model.EvidenceItem {
	pool := make([]model.EvidenceItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, ev := range items {
		if err := ev.Validate(); err != nil {
			stats.excluded++
			metrics.ExcludedEvidence.Inc()
			slog.Warn("excluding evidence", "evidence_id", ev.EvidenceID, "error", err)
			continue
		}
		if ev.EvidenceID == "" {
			ev.EvidenceID = v.newID()
		}
		if seen[ev.EvidenceID] {
			stats.duplicates++
			continue
		}
		seen[ev.EvidenceID] = true
		pool = append(pool, ev)
	}
	return pool
}

func (v *Verifier) selectRelevant(ctx context.Context, claims []model.Claim, pool []model.EvidenceItem) ([]pair, error) {
	perClaim := make([][]relevance.Match, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range claims {
		g.Go(func() error {
			matches, err := v.Relevance.Select(gctx, c, pool)
			if err != nil {
				return fmt.Errorf("relevance for claim %s: %w", c.ClaimID, err)
			}
			perClaim[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	var pairs []pair
	for ci, matches := range perClaim {
		for _, m := range matches {
			if m.Index < 0 || m.Index >= len(pool) {
				continue
			}
			pairs = append(pairs, pair{claim: ci, evidence: m.Index, relevance: m.Score})
		}
	}
	return pairs, nil
}

// extract judges every pair concurrently, bounded by v.Concurrency. Each
// task owns one slot of the result slice.
func (v *Verifier) extract(ctx context.Context, claims []model.Claim, pool []model.EvidenceItem, pairs []pair, stats *runStats) ([]model.EvidenceAnalysis, error) {
	results := make([]model.EvidenceAnalysis, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency())
	for i, p := range pairs {
		g.Go(func() error {
			c, ev := claims[p.claim], pool[p.evidence]
			s, err := v.Signals.Extract(gctx, c.ClaimText, ev)
			if err != nil {
				return err
			}
			results[i] = model.EvidenceAnalysis{
				ClaimID:       c.ClaimID,
				Evidence:      ev,
				Signals:       s,
				CombinedScore: v.Weights.Combine(s),
				Relevance:     p.relevance,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	for _, a := range results {
		if a.Signals.Degraded {
			stats.degraded++
		}
	}
	return results, nil
}

func (v *Verifier) concurrency() int {
	if v.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return v.Concurrency
}

func (v *Verifier) newID() string {
	if v.UUIDGenerator == nil {
		return uuid.New().String()
	}
	return v.UUIDGenerator()
}

func (v *Verifier) now() time.Time {
	if v.Clock == nil {
		return time.Now()
	}
	return v.Clock()
}

func assignClaimIDs(claims []model.Claim) []model.Claim {
	out := make([]model.Claim, len(claims))
	copy(out, claims)
	for i := range out {
		if out[i].ClaimID == "" {
			out[i].ClaimID = fmt.Sprintf("c%d", i+1)
		}
	}
	return out
}

func processingNotes(stats runStats, mv model.MisinformationVerdict) string {
	var notes []string
	if stats.excluded > 0 {
		notes = append(notes, fmt.Sprintf("%d evidence item(s) excluded for missing text", stats.excluded))
	}
	if stats.duplicates > 0 {
		notes = append(notes, fmt.Sprintf("%d duplicate evidence item(s) ignored", stats.duplicates))
	}
	if stats.degraded > 0 {
		notes = append(notes, fmt.Sprintf("%d judgment(s) fell back to neutral defaults after oracle failures", stats.degraded))
	}
	if len(stats.noEvidence) > 0 {
		notes = append(notes, fmt.Sprintf("no relevant evidence for claim(s) %s", strings.Join(stats.noEvidence, ", ")))
	}
	if mv.Verdict == model.VerdictInconclusive {
		notes = append(notes, fmt.Sprintf("overall confidence %.2f is below %.2f; the evidence does not settle the claims", mv.OverallConfidence, verdict.ConfidenceGate))
	}
	return strings.Join(notes, "; ")
}

func failureKind(err error) string {
	var verr *model.VerificationError
	switch {
	case errors.As(err, &verr):
		return string(verr.Kind)
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	default:
		return "error"
	}
}
