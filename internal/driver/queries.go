package driver

const (
	SaveRunQuery = `
		MERGE (r:VerificationRun {run_id: $run_id})
		SET r.verified_at = $verified_at,
			r.verifier_version = $verifier_version,
			r.overall_truth_score = $overall_truth_score,
			r.overall_confidence = $overall_confidence,
			r.misinformation_likelihood = $misinformation_likelihood,
			r.verdict = $verdict,
			r.processing_notes = $processing_notes,
			r.report = $report
		RETURN r.run_id AS run_id
	`

	SaveFindingQuery = `
		MATCH (r:VerificationRun {run_id: $run_id})
		MERGE (f:ClaimFinding {uuid: $uuid})
		SET f.claim_id = $claim_id,
			f.claim_text = $claim_text,
			f.finding = $finding,
			f.truth_score = $truth_score,
			f.label = $label,
			f.supporting_evidence_count = $supporting_evidence_count,
			f.contradicting_evidence_count = $contradicting_evidence_count,
			f.neutral_evidence_count = $neutral_evidence_count
		MERGE (r)-[:HAS_FINDING]->(f)
		RETURN f.uuid AS uuid
	`

	// SaveCitationQuery links a finding to a source, keeping the best
	// credibility ever observed for that source.
	SaveCitationQuery = `
		MATCH (f:ClaimFinding {uuid: $finding_uuid})
		MERGE (s:Source {name: $name})
		ON CREATE SET s.credibility = $credibility
		ON MATCH SET s.credibility = CASE WHEN s.credibility < $credibility THEN $credibility ELSE s.credibility END
		MERGE (f)-[c:CITES]->(s)
		SET c.rank = $rank
		RETURN s.name AS name
	`

	GetRunReportQuery = `
		MATCH (r:VerificationRun {run_id: $run_id})
		RETURN r.report AS report
	`

	GetRecentRunsQuery = `
		MATCH (r:VerificationRun)
		RETURN r.run_id AS run_id, r.verified_at AS verified_at, r.verdict AS verdict,
			r.overall_truth_score AS overall_truth_score
		ORDER BY r.verified_at DESC
		LIMIT $limit
	`

	GetSourceStatsQuery = `
		MATCH (f:ClaimFinding)-[:CITES]->(s:Source {name: $name})
		RETURN s.name AS name, s.credibility AS credibility, count(f) AS citations, avg(f.truth_score) AS mean_truth
	`
)
