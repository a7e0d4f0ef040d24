package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkoval/horizon/internal/model"
	"github.com/pkoval/horizon/internal/store"
)

// stagingExtras are the scoring and provenance columns appended after the
// master schema on staging exports. Sorted, and fixed so downstream
// consumers can rely on column positions.
var stagingExtras = []string{
	"candidate_id",
	"canonical_url",
	"claim_summary",
	"content_hash",
	"credibility_score",
	"decision",
	"doc_id",
	"duplicate_flag",
	"evidence_snippet",
	"importance_distance",
	"max_similarity",
	"nearest_ids",
	"novelty_score",
	"priority_index",
	"published_at",
	"relevance_score",
	"scoring_rationale",
	"source_tier",
	"why_it_matters",
}

// writeExports renders the per-run CSV set: every candidate with full
// scoring detail, plus the accepted rows in clean master schema and the
// review/reject splits with detail retained.
func writeExports(dir string, scored []*model.ScoredCandidate, rows []model.MasterRecord) error {
	stagingHeader := append(append([]string{}, model.MasterColumns...), stagingExtras...)

	var all, review, reject [][]string
	var accepted [][]string

	for i, sc := range scored {
		staging := append(store.RenderRow(rows[i]), extrasFor(sc)...)
		all = append(all, staging)

		switch sc.Scores.Decision {
		case model.DecisionAccept:
			accepted = append(accepted, store.RenderRow(rows[i]))
		case model.DecisionReview:
			review = append(review, staging)
		case model.DecisionReject:
			reject = append(reject, staging)
		}
	}

	exports := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"all_candidates.csv", stagingHeader, all},
		{"accepted.csv", model.MasterColumns, accepted},
		{"pending_review.csv", stagingHeader, review},
		{"rejected.csv", stagingHeader, reject},
	}
	for _, e := range exports {
		if err := writeCSV(filepath.Join(dir, e.name), e.header, e.rows); err != nil {
			return err
		}
	}
	return nil
}

// extrasFor renders the staging extras in stagingExtras order.
func extrasFor(sc *model.ScoredCandidate) []string {
	return []string{
		sc.Candidate.CandidateID,
		sc.Candidate.CanonicalURL,
		sc.Candidate.ClaimSummary,
		sc.Candidate.ContentHash,
		formatScore(sc.Scores.Credibility),
		string(sc.Scores.Decision),
		sc.Candidate.DocID,
		strconv.FormatBool(sc.Similarity.Duplicate),
		sc.Candidate.EvidenceSnippet,
		strconv.Itoa(sc.Scores.ImportanceDistance),
		strconv.FormatFloat(sc.Similarity.MaxSimilarity, 'f', 4, 64),
		strings.Join(sc.Similarity.NearestIDs(), ","),
		formatScore(sc.Scores.Novelty),
		formatScore(sc.Scores.PriorityIndex),
		sc.Candidate.PublishedAt,
		formatScore(sc.Scores.Relevance),
		sc.Scores.Rationale,
		string(sc.Tier),
		sc.Candidate.WhyItMatters,
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// writeMasterCSV writes records in plain master schema, header included.
func writeMasterCSV(path string, records []model.MasterRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = store.RenderRow(rec)
	}
	return writeCSV(path, model.MasterColumns, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export %s: %w", path, err)
	}

	writer := csv.NewWriter(f)
	writeErr := writer.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(row)
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("write export %s: %w", path, writeErr)
	}
	return nil
}

// LoadPendingReview reads a run date's pending-review export back as
// master records, for promotion into the signals master.
func LoadPendingReview(outputDir, runDate string) ([]model.MasterRecord, error) {
	path := filepath.Join(outputDir, runDate, "pending_review.csv")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pending review export: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read pending review export: %w", err)
	}
	if len(all) <= 1 {
		return nil, nil
	}

	records := make([]model.MasterRecord, 0, len(all)-1)
	for i, row := range all[1:] {
		rec, err := store.ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("pending review row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
