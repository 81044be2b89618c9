// Package signal obtains and packages the per-evidence judgments (NLI,
// stance, credibility, temporal alignment) for a claim.
package signal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/metrics"
)

var ErrEmptyClaim = errors.New("claim text is empty")

const (
	DefaultMaxRetries  = 2
	DefaultCallTimeout = 20 * time.Second
)

// Extractor wraps a JudgmentOracle with input validation, bounded retries
// and the neutral fallback.
type Extractor struct {
	Oracle      JudgmentOracle
	MaxRetries  int
	CallTimeout time.Duration
	// Backoff is the pause before retry n (n starting at 1), multiplied by n.
	Backoff time.Duration
	Logger  *slog.Logger
}

func NewExtractor(oracle JudgmentOracle, maxRetries int, callTimeout time.Duration) *Extractor {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Extractor{
		Oracle:      oracle,
		MaxRetries:  maxRetries,
		CallTimeout: callTimeout,
		Backoff:     250 * time.Millisecond,
		Logger:      slog.Default(),
	}
}

// Extract returns a fully populated SignalSet for the pair. Oracle failures
// are retried and, once retries run out, replaced by model.NeutralSignalSet
// with a nil error. Errors are returned only for invalid input and for
// cancellation of ctx.
func (e *Extractor) Extract(ctx context.Context, claimText string, ev model.EvidenceItem) (model.SignalSet, error) {
	if strings.TrimSpace(claimText) == "" {
		return model.SignalSet{}, ErrEmptyClaim
	}
	if err := ev.Validate(); err != nil {
		return model.SignalSet{}, err
	}

	req := JudgmentRequest{ClaimText: claimText, Evidence: ev}
	var lastErr error
	for attempt := 0; attempt <= e.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := e.pause(ctx, attempt); err != nil {
				return model.SignalSet{}, err
			}
		}

		s, err := e.judgeOnce(ctx, req)
		if err == nil {
			metrics.OracleCalls.WithLabelValues("ok").Inc()
			return finalize(s, claimText), nil
		}
		if ctx.Err() != nil {
			return model.SignalSet{}, ctx.Err()
		}

		lastErr = classify(err)
		metrics.OracleCalls.WithLabelValues(outcome(lastErr)).Inc()
		e.logger().Debug("oracle attempt failed",
			"evidence_id", ev.EvidenceID,
			"attempt", attempt+1,
			"error", lastErr)
	}

	metrics.DegradedJudgments.Inc()
	e.logger().Warn("oracle retries exhausted, using neutral signals",
		"evidence_id", ev.EvidenceID,
		"attempts", e.MaxRetries+1,
		"error", lastErr)
	return model.NeutralSignalSet(), nil
}

func (e *Extractor) judgeOnce(ctx context.Context, req JudgmentRequest) (model.SignalSet, error) {
	timeout := e.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		s   model.SignalSet
		err error
	}
	// The oracle may ignore its context; do not let it hold up cancellation.
	done := make(chan result, 1)
	go func() {
		s, err := e.Oracle.Judge(callCtx, req)
		done <- result{s, err}
	}()

	select {
	case r := <-done:
		return r.s, r.err
	case <-callCtx.Done():
		return model.SignalSet{}, callCtx.Err()
	}
}

func (e *Extractor) pause(ctx context.Context, attempt int) error {
	if e.Backoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(attempt) * e.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func classify(err error) error {
	var verr *model.VerificationError
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewError(model.KindOracleTimeout, "judgment call timed out", err)
	}
	return fmt.Errorf("oracle call failed: %w", err)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, model.ErrOracleTimeout):
		return "timeout"
	case errors.Is(err, model.ErrOracleMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}

// finalize guarantees the temporal signal is populated and that claims
// without a date or timeframe are never marked misaligned.
func finalize(s model.SignalSet, claimText string) model.SignalSet {
	if s.TemporalAlignment == nil || !HasTemporalReference(claimText) {
		s.TemporalAlignment = model.NoTemporalConstraints()
	}
	s.Degraded = false
	return s
}
