// Package archive persists verification reports as a graph:
// (:VerificationRun)-[:HAS_FINDING]->(:ClaimFinding)-[:CITES]->(:Source).
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/driver"
)

var ErrNotFound = errors.New("run not found")

type Archive struct {
	Driver        driver.GraphDriver
	UUIDGenerator func() string
}

func New(d driver.GraphDriver) *Archive {
	return &Archive{
		Driver:        d,
		UUIDGenerator: func() string { return uuid.New().String() },
	}
}

// RunSummary is one row of the recent-runs listing.
type RunSummary struct {
	RunID             string  `json:"run_id"`
	VerifiedAt        string  `json:"verified_at"`
	Verdict           string  `json:"verdict"`
	OverallTruthScore float64 `json:"overall_truth_score"`
}

func (a *Archive) Save(ctx context.Context, report *model.Report) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("report has no run id")
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	mv := report.MisinformationAnalysis
	runParams := map[string]interface{}{
		"run_id":                    report.RunID,
		"verified_at":               report.VerificationTimestamp,
		"verifier_version":          report.VerifierVersion,
		"overall_truth_score":       mv.OverallTruthScore,
		"overall_confidence":        mv.OverallConfidence,
		"misinformation_likelihood": mv.MisinformationLikelihood,
		"verdict":                   string(mv.Verdict),
		"processing_notes":          report.ProcessingNotes,
		"report":                    string(raw),
	}
	if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, f := range report.IndividualClaimFindings {
		findingUUID := a.UUIDGenerator()
		findingParams := map[string]interface{}{
			"run_id":                       report.RunID,
			"uuid":                         findingUUID,
			"claim_id":                     f.ClaimID,
			"claim_text":                   f.ClaimText,
			"finding":                      f.Finding,
			"truth_score":                  f.TruthScore,
			"label":                        string(f.Label),
			"supporting_evidence_count":    f.SupportingEvidenceCount,
			"contradicting_evidence_count": f.ContradictingEvidenceCount,
			"neutral_evidence_count":       f.NeutralEvidenceCount,
		}
		if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveFindingQuery, findingParams); err != nil {
			return fmt.Errorf("failed to save finding %s: %w", f.ClaimID, err)
		}

		cred := make(map[string]float64, len(f.SourceRefs))
		for _, r := range f.SourceRefs {
			cred[r.Name] = r.Credibility
		}
		for rank, name := range f.Sources {
			citation := map[string]interface{}{
				"finding_uuid": findingUUID,
				"name":         name,
				"credibility":  cred[name],
				"rank":         rank + 1,
			}
			if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveCitationQuery, citation); err != nil {
				return fmt.Errorf("failed to save source %s: %w", name, err)
			}
		}
	}
	return nil
}

// Get returns the stored report for runID.
func (a *Archive) Get(ctx context.Context, runID string) (*model.Report, error) {
	res, err := a.Driver.ExecuteQuery(ctx, driver.GetRunReportQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}
	raw, _ := res.Records[0].Get("report")
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, ErrNotFound
	}

	var report model.Report
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", runID, err)
	}
	return &report, nil
}

func (a *Archive) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	res, err := a.Driver.ExecuteQuery(ctx, driver.GetRecentRunsQuery, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}

	runs := make([]RunSummary, 0, len(res.Records))
	for _, rec := range res.Records {
		runID, _ := rec.Get("run_id")
		verifiedAt, _ := rec.Get("verified_at")
		verdict, _ := rec.Get("verdict")
		truth, _ := rec.Get("overall_truth_score")

		s := RunSummary{}
		s.RunID, _ = runID.(string)
		s.VerifiedAt, _ = verifiedAt.(string)
		s.Verdict, _ = verdict.(string)
		s.OverallTruthScore, _ = truth.(float64)
		runs = append(runs, s)
	}
	return runs, nil
}
